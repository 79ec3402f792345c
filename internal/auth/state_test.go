package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-wardlow/tt/internal/oauth"
)

func TestStateRoundTrip(t *testing.T) {
	state, err := issueState("secret", oauth.Google, time.Minute)
	require.NoError(t, err)

	require.NoError(t, parseState("secret", state, oauth.Google))
}

func TestStateWrongProvider(t *testing.T) {
	state, err := issueState("secret", oauth.Google, time.Minute)
	require.NoError(t, err)

	require.Error(t, parseState("secret", state, oauth.Discord))
}

func TestStateWrongSecret(t *testing.T) {
	state, err := issueState("secret", oauth.Google, time.Minute)
	require.NoError(t, err)

	require.Error(t, parseState("other", state, oauth.Google))
}

func TestStateExpired(t *testing.T) {
	state, err := issueState("secret", oauth.Google, -time.Minute)
	require.NoError(t, err)

	require.Error(t, parseState("secret", state, oauth.Google))
}
