package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/edumart/server-go/pkg/apperrors"
)

// RoleEducator is the public-metadata role granting course publishing rights.
const RoleEducator = "educator"

// Client talks to the Clerk backend API. One instance is constructed at
// startup and injected into the middleware and handlers that need it.
type Client struct {
	users *clerkuser.Client
	jwks  *jwks.Client

	mu   sync.RWMutex
	keys map[string]*clerk.JSONWebKey
}

// New builds a Clerk client from the backend secret key.
func New(secretKey string) *Client {
	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(secretKey)

	return &Client{
		users: clerkuser.NewClient(cfg),
		jwks:  jwks.NewClient(cfg),
		keys:  make(map[string]*clerk.JSONWebKey),
	}
}

// VerifySessionToken validates a Clerk session JWT and returns the subject
// user id. Signing keys are fetched from Clerk's JWKS endpoint and cached by
// key id.
func (c *Client) VerifySessionToken(ctx context.Context, token string) (string, error) {
	unverified, err := clerkjwt.Decode(ctx, &clerkjwt.DecodeParams{Token: token})
	if err != nil {
		return "", apperrors.New("Invalid token", http.StatusUnauthorized, apperrors.ErrUnauthorized, fmt.Errorf("decode session token: %w", err))
	}

	jwk, err := c.signingKey(ctx, unverified.KeyID)
	if err != nil {
		return "", err
	}

	claims, err := clerkjwt.Verify(ctx, &clerkjwt.VerifyParams{Token: token, JWK: jwk})
	if err != nil {
		return "", apperrors.New("Invalid token", http.StatusUnauthorized, apperrors.ErrUnauthorized, fmt.Errorf("verify session token: %w", err))
	}

	return claims.RegisteredClaims.Subject, nil
}

// Role returns the role recorded in the user's public metadata, or the empty
// string when none is set.
func (c *Client) Role(ctx context.Context, userID string) (string, error) {
	usr, err := c.users.Get(ctx, userID)
	if err != nil {
		return "", apperrors.New("failed to resolve user role", http.StatusInternalServerError, apperrors.ErrProvider, fmt.Errorf("fetch clerk user %s: %w", userID, err))
	}

	var meta struct {
		Role string `json:"role"`
	}
	if len(usr.PublicMetadata) > 0 {
		if err := json.Unmarshal(usr.PublicMetadata, &meta); err != nil {
			return "", fmt.Errorf("decode public metadata: %w", err)
		}
	}

	return meta.Role, nil
}

// PromoteToEducator sets the educator role on the user's public metadata.
func (c *Client) PromoteToEducator(ctx context.Context, userID string) error {
	raw := json.RawMessage(fmt.Sprintf(`{"role":%q}`, RoleEducator))
	_, err := c.users.UpdateMetadata(ctx, userID, &clerkuser.UpdateMetadataParams{
		PublicMetadata: &raw,
	})
	if err != nil {
		return apperrors.New("failed to update role", http.StatusInternalServerError, apperrors.ErrProvider, fmt.Errorf("update clerk metadata for %s: %w", userID, err))
	}
	return nil
}

func (c *Client) signingKey(ctx context.Context, keyID string) (*clerk.JSONWebKey, error) {
	c.mu.RLock()
	jwk, ok := c.keys[keyID]
	c.mu.RUnlock()
	if ok {
		return jwk, nil
	}

	jwk, err := clerkjwt.GetJSONWebKey(ctx, &clerkjwt.GetJSONWebKeyParams{
		KeyID:      keyID,
		JWKSClient: c.jwks,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch signing key %s: %w", keyID, err)
	}

	c.mu.Lock()
	c.keys[keyID] = jwk
	c.mu.Unlock()

	return jwk, nil
}
