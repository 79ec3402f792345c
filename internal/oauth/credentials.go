package oauth

import "strings"

// ClientIDEnvKey returns the environment variable holding the provider's
// OAuth client id. Implemented as an exhaustive switch over the closed
// provider set so a new provider cannot ship without a key mapping.
func ClientIDEnvKey(p Provider) string {
	switch p {
	case Google:
		return "GOOGLE_CLIENT_ID"
	case Discord:
		return "DISCORD_CLIENT_ID"
	case Twitch:
		return "TWITCH_CLIENT_ID"
	}
	return ""
}

// ClientSecretEnvKey returns the environment variable holding the provider's
// OAuth client secret.
func ClientSecretEnvKey(p Provider) string {
	switch p {
	case Google:
		return "GOOGLE_CLIENT_SECRET"
	case Discord:
		return "DISCORD_CLIENT_SECRET"
	case Twitch:
		return "TWITCH_CLIENT_SECRET"
	}
	return ""
}

// Profile is the normalized shape of a provider profile payload. Every field
// is optional; providers differ in which ones they populate.
type Profile struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	GlobalName  string `json:"global_name"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// MapProfile extracts the preferred username from a provider profile.
// Precedence per provider:
//
//	google:  local part of email, else name
//	discord: username, else global_name
//	twitch:  login, else display_name
//
// A missing field is never an error: absent data yields an empty string so
// account creation can proceed without a username.
func (p Provider) MapProfile(profile Profile) string {
	switch p {
	case Google:
		if profile.Email != "" {
			local := profile.Email
			if at := strings.Index(profile.Email, "@"); at >= 0 {
				local = profile.Email[:at]
			}
			if local != "" {
				return local
			}
		}
		return profile.Name
	case Discord:
		if profile.Username != "" {
			return profile.Username
		}
		return profile.GlobalName
	case Twitch:
		if profile.Login != "" {
			return profile.Login
		}
		return profile.DisplayName
	}
	return ""
}
