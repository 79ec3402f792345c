package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/noah-wardlow/tt/internal/domain/user"
	"github.com/noah-wardlow/tt/internal/oauth"
)

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

var twitchEndpoint = oauth2.Endpoint{
	AuthURL:  "https://id.twitch.tv/oauth2/authorize",
	TokenURL: "https://id.twitch.tv/oauth2/token",
}

// providerClient performs the code exchange and profile fetch for one
// provider. Google verifies an OIDC id_token; Discord and Twitch are plain
// OAuth2 with a userinfo endpoint.
type providerClient struct {
	provider oauth.Provider
	oauthCfg *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func newProviderClient(ctx context.Context, p oauth.Provider, clientID, clientSecret, redirectURL string) (*providerClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%s oauth credentials missing", p)
	}

	client := &providerClient{provider: p}
	switch p {
	case oauth.Google:
		oidcProvider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
		if err != nil {
			return nil, fmt.Errorf("init google oidc provider: %w", err)
		}
		client.verifier = oidcProvider.Verifier(&oidc.Config{ClientID: clientID})
		client.oauthCfg = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		}
	case oauth.Discord:
		client.oauthCfg = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     discordEndpoint,
			Scopes:       []string{"identify", "email"},
		}
	case oauth.Twitch:
		client.oauthCfg = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     twitchEndpoint,
			Scopes:       []string{"user:read:email"},
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p)
	}
	return client, nil
}

// authCodeURL builds the provider consent URL.
func (c *providerClient) authCodeURL(state string) string {
	return c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// identity exchanges the authorization code and normalizes the provider
// profile, including the preferred-username mapping.
func (c *providerClient) identity(ctx context.Context, code string) (user.OAuthIdentity, error) {
	token, err := c.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return user.OAuthIdentity{}, fmt.Errorf("%s token exchange failed: %w", c.provider, err)
	}

	switch c.provider {
	case oauth.Google:
		return c.googleIdentity(ctx, token)
	case oauth.Discord:
		return c.discordIdentity(ctx, token)
	case oauth.Twitch:
		return c.twitchIdentity(ctx, token)
	}
	return user.OAuthIdentity{}, fmt.Errorf("unsupported provider: %s", c.provider)
}

func (c *providerClient) googleIdentity(ctx context.Context, token *oauth2.Token) (user.OAuthIdentity, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return user.OAuthIdentity{}, errors.New("google did not return id_token")
	}
	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return user.OAuthIdentity{}, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return user.OAuthIdentity{}, fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" {
		return user.OAuthIdentity{}, errors.New("google id_token missing subject")
	}

	profile := oauth.Profile{Email: claims.Email, Name: claims.Name}
	return user.OAuthIdentity{
		Provider:          string(oauth.Google),
		ProviderAccountID: claims.Subject,
		Email:             claims.Email,
		EmailVerified:     claims.EmailVerified,
		Name:              claims.Name,
		Username:          oauth.Google.MapProfile(profile),
		Image:             claims.Picture,
	}, nil
}

func (c *providerClient) discordIdentity(ctx context.Context, token *oauth2.Token) (user.OAuthIdentity, error) {
	var payload struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Email      string `json:"email"`
		Verified   bool   `json:"verified"`
		Avatar     string `json:"avatar"`
	}
	if err := c.fetchUserInfo(ctx, token, "https://discord.com/api/users/@me", &payload); err != nil {
		return user.OAuthIdentity{}, err
	}
	if payload.ID == "" {
		return user.OAuthIdentity{}, errors.New("discord profile missing id")
	}

	profile := oauth.Profile{Username: payload.Username, GlobalName: payload.GlobalName}
	identity := user.OAuthIdentity{
		Provider:          string(oauth.Discord),
		ProviderAccountID: payload.ID,
		Email:             payload.Email,
		EmailVerified:     payload.Verified,
		Name:              payload.GlobalName,
		Username:          oauth.Discord.MapProfile(profile),
	}
	if payload.Avatar != "" {
		identity.Image = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", payload.ID, payload.Avatar)
	}
	return identity, nil
}

func (c *providerClient) twitchIdentity(ctx context.Context, token *oauth2.Token) (user.OAuthIdentity, error) {
	var payload struct {
		Data []struct {
			ID              string `json:"id"`
			Login           string `json:"login"`
			DisplayName     string `json:"display_name"`
			Email           string `json:"email"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}
	if err := c.fetchUserInfo(ctx, token, "https://api.twitch.tv/helix/users", &payload); err != nil {
		return user.OAuthIdentity{}, err
	}
	if len(payload.Data) == 0 || payload.Data[0].ID == "" {
		return user.OAuthIdentity{}, errors.New("twitch profile missing id")
	}

	me := payload.Data[0]
	profile := oauth.Profile{Login: me.Login, DisplayName: me.DisplayName}
	return user.OAuthIdentity{
		Provider:          string(oauth.Twitch),
		ProviderAccountID: me.ID,
		Email:             me.Email,
		Name:              me.DisplayName,
		Username:          oauth.Twitch.MapProfile(profile),
		Image:             me.ProfileImageURL,
	}, nil
}

func (c *providerClient) fetchUserInfo(ctx context.Context, token *oauth2.Token, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	if c.provider == oauth.Twitch {
		// Helix requires the app client id alongside the user token.
		req.Header.Set("Client-Id", c.oauthCfg.ClientID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s userinfo request failed: %w", c.provider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s userinfo returned status %d", c.provider, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s userinfo decode failed: %w", c.provider, err)
	}
	return nil
}
