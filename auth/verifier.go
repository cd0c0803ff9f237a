package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Identity is what the hosted auth provider asserts about a login token.
type Identity struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verifier validates a provider-issued ID token. The actual identity
// provider is a hosted service; we only consume its verify endpoint.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

var ErrTokenRejected = errors.New("identity provider rejected token")

// HTTPVerifier posts the token to the provider's verify endpoint.
type HTTPVerifier struct {
	verifyURL string
	http      *http.Client
}

func NewHTTPVerifier(verifyURL string) *HTTPVerifier {
	return &HTTPVerifier{
		verifyURL: verifyURL,
		http:      &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	payload := strings.NewReader(fmt.Sprintf(`{"id_token":%q}`, idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrTokenRejected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verify token: unexpected status %d", resp.StatusCode)
	}

	var ident Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, fmt.Errorf("verify token: decode response: %w", err)
	}
	if ident.UserID == "" || ident.Email == "" {
		return nil, errors.New("verify token: provider returned incomplete identity")
	}
	return &ident, nil
}
