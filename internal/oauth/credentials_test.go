package oauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvKeyDerivation(t *testing.T) {
	require.Equal(t, "GOOGLE_CLIENT_ID", ClientIDEnvKey(Google))
	require.Equal(t, "GOOGLE_CLIENT_SECRET", ClientSecretEnvKey(Google))
	require.Equal(t, "DISCORD_CLIENT_ID", ClientIDEnvKey(Discord))
	require.Equal(t, "TWITCH_CLIENT_SECRET", ClientSecretEnvKey(Twitch))
}

func TestEnvKeyUndeclaredProvider(t *testing.T) {
	require.Empty(t, ClientIDEnvKey(Provider("github")))
	require.Empty(t, ClientSecretEnvKey(Provider("github")))
}

func TestMapProfileGoogle(t *testing.T) {
	require.Equal(t, "demo", Google.MapProfile(Profile{Email: "demo@example.com", Name: "Demo User"}))
	require.Equal(t, "Demo User", Google.MapProfile(Profile{Name: "Demo User"}))
	// Empty local part falls through to the display name.
	require.Equal(t, "Demo User", Google.MapProfile(Profile{Email: "@example.com", Name: "Demo User"}))
}

func TestMapProfileDiscord(t *testing.T) {
	require.Equal(t, "demo", Discord.MapProfile(Profile{Username: "demo", GlobalName: "Demo"}))
	require.Equal(t, "Demo", Discord.MapProfile(Profile{GlobalName: "Demo"}))
}

func TestMapProfileTwitch(t *testing.T) {
	require.Equal(t, "demo", Twitch.MapProfile(Profile{Login: "demo", DisplayName: "Demo"}))
	require.Equal(t, "Demo", Twitch.MapProfile(Profile{DisplayName: "Demo"}))
}

func TestMapProfileEmptyNeverFails(t *testing.T) {
	for _, p := range []Provider{Google, Discord, Twitch} {
		require.Empty(t, p.MapProfile(Profile{}))
	}
}
