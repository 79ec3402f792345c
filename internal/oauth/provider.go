package oauth

// Provider identifies a supported social login provider.
type Provider string

const (
	Google  Provider = "google"
	Discord Provider = "discord"
	Twitch  Provider = "twitch"
)

// Descriptor describes one provider's enablement and display metadata.
// The table is defined at process start and never mutated.
type Descriptor struct {
	Provider    Provider `json:"provider"`
	Enabled     bool     `json:"enabled"`
	DisplayName string   `json:"name"`
}

// descriptors is the authoritative provider table. Order matters: it drives
// both the client's login button order and the trusted-provider list.
var descriptors = []Descriptor{
	{Provider: Google, Enabled: true, DisplayName: "Google"},
	{Provider: Discord, Enabled: false, DisplayName: "Discord"},
	{Provider: Twitch, Enabled: false, DisplayName: "Twitch"},
}

// Descriptors returns a copy of the full provider table.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// EnabledProviders returns the enabled providers in declaration order.
func EnabledProviders() []Provider {
	var out []Provider
	for _, d := range descriptors {
		if d.Enabled {
			out = append(out, d.Provider)
		}
	}
	return out
}

// IsEnabled reports whether the provider is declared and enabled.
// Total over all inputs: undeclared providers are simply false.
func IsEnabled(p Provider) bool {
	for _, d := range descriptors {
		if d.Provider == p {
			return d.Enabled
		}
	}
	return false
}

// Lookup parses a raw identifier (e.g. a path param) into a declared
// Provider. The second return is false for anything not in the table.
func Lookup(raw string) (Provider, bool) {
	for _, d := range descriptors {
		if string(d.Provider) == raw {
			return d.Provider, true
		}
	}
	return "", false
}
