package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/config"
)

// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
var ErrOIDCDisabled = errors.New("oidc authentication is disabled")

// Standard claims mapped onto the synchronization attributes. The email claim
// already carries the attribute name.
const (
	claimSubject    = "sub"
	claimGivenName  = "given_name"
	claimFamilyName = "family_name"
	claimGroups     = "groups"
)

// OIDCProvider handles OIDC authentication.
type OIDCProvider struct {
	config   config.OIDCAuth
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
	log      zerolog.Logger
}

// NewOIDCProvider creates a new OIDC provider. It fetches the discovery document
// of the issuer.
func NewOIDCProvider(ctx context.Context, cfg *config.OIDCAuth, log zerolog.Logger) (*OIDCProvider, error) {
	if !cfg.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		config:   *cfg,
		provider: provider,
		verifier: verifier,
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		log: log,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// AuthURL returns the OIDC authorization URL with state token.
func (p *OIDCProvider) AuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback exchanges code, verifies the ID token and returns its claims.
func (p *OIDCProvider) HandleCallback(ctx context.Context, code string) (*attribute.Store, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims map[string]any
	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	p.log.Debug().Str("sub", idToken.Subject).Msg("oidc id token verified")

	return ClaimsToStore(claims, p.config.GroupsClaim), nil
}

// UserInfo fetches the claims of the UserInfo endpoint for accessToken.
func (p *OIDCProvider) UserInfo(ctx context.Context, accessToken string) (*attribute.Store, error) {
	userInfo, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	var claims map[string]any
	if err = userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse user info claims: %w", err)
	}

	return ClaimsToStore(claims, p.config.GroupsClaim), nil
}

// ClaimsToStore flattens decoded JSON claims into a store. Scalars become one
// value, arrays one value per element, null a null value and objects their
// JSON encoding. The standard claims are also copied to the synchronization
// attributes and groupsClaim (default "groups") to "groups".
func ClaimsToStore(claims map[string]any, groupsClaim string) *attribute.Store {
	if groupsClaim == "" {
		groupsClaim = claimGroups
	}

	mapped := map[string]string{
		attribute.ExternalID: claimSubject,
		attribute.FirstName:  claimGivenName,
		attribute.LastName:   claimFamilyName,
		attribute.Groups:     groupsClaim,
	}

	store := attribute.New()

	for name, v := range claims {
		// a mapped attribute only takes the value of its source claim
		if from, ok := mapped[name]; ok && from != name {
			continue
		}

		addClaim(store, name, v)
	}

	for to, from := range mapped {
		if to == from {
			continue
		}

		if v, ok := claims[from]; ok {
			addClaim(store, to, v)
		}
	}

	return store
}

func addClaim(store *attribute.Store, name string, v any) {
	switch vv := v.(type) {
	case nil:
		store.AddValue(name, nil)
	case []any:
		store.Add(name)

		for _, e := range vv {
			addClaim(store, name, e)
		}
	case []string:
		store.Add(name, vv...)
	default:
		s := claimString(vv)
		store.AddValue(name, &s)
	}
}

func claimString(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case json.Number:
		return vv.String()
	default:
		b, err := json.Marshal(vv)
		if err != nil {
			return fmt.Sprint(vv)
		}

		return string(b)
	}
}
