package token

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultDeliveryTimeout = 2 * time.Minute

// HTTPDeliverer posts security tokens to SPUs over HTTPS. SPUs answer a
// successful delivery with a bare "OK" (recipe engine v1) or with a JSON
// acknowledgement naming the recipe to wait on (recipe engine v2).
type HTTPDeliverer struct {
	httpClient *http.Client
}

// Compile-time interface check.
var _ Deliverer = (*HTTPDeliverer)(nil)

// NewHTTPDeliverer returns an HTTPDeliverer with the given per-delivery
// timeout. A zero or negative timeout falls back to two minutes.
func NewHTTPDeliverer(timeout time.Duration) *HTTPDeliverer {
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &HTTPDeliverer{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Deliver posts the token to https://<target> and parses the
// acknowledgement. A non-2xx response or unreachable target is a delivery
// refusal for that target.
func (d *HTTPDeliverer) Deliver(ctx context.Context, target, token string) (*Ack, error) {
	url := "https://" + target

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(token))
	if err != nil {
		return nil, fmt.Errorf("token: create delivery request for %s: %w", target, err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token: deliver to %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("token: read delivery response from %s: %w", target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("token: %s rejected delivery (HTTP %d): %s",
			target, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	text := strings.TrimSpace(string(body))
	if text == "OK" || text == `"OK"` {
		return &Ack{Target: target}, nil
	}

	var ack Ack
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("token: parse delivery response from %s: %w", target, err)
	}
	ack.Target = target
	return &ack, nil
}
