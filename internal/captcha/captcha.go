// Package captcha validates client-supplied bot-check tokens against an
// external verification provider.
package captcha

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is Cloudflare Turnstile's server-side verification URL.
const DefaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Validator reports whether a captcha token is valid. Implementations must
// never panic or let provider failures escape: an unverifiable token is an
// invalid token.
type Validator interface {
	Verify(ctx context.Context, token string) bool
}

// Turnstile verifies tokens against a Turnstile-compatible siteverify
// endpoint.
type Turnstile struct {
	secret string
	// Endpoint may be overridden before first use; defaults to
	// DefaultEndpoint.
	Endpoint string
	client   *http.Client
}

// NewTurnstile constructs a validator with the given provider secret.
func NewTurnstile(secret string) *Turnstile {
	return &Turnstile{
		secret:   secret,
		Endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify resolves to false on a missing token, provider error, non-2xx
// response, or unparseable body.
func (t *Turnstile) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	form := url.Values{
		"secret":   {t.secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("captcha: provider unreachable: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("captcha: provider returned status %d", resp.StatusCode)
		return false
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("captcha: decode provider response: %v", err)
		return false
	}
	return body.Success
}
