package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tradewatch/internal/model"
)

// requestTimeout bounds every provider HTTP call; no fetch may block a
// tick indefinitely.
const requestTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// getJSON issues a GET and decodes the JSON body into v. Network and
// status failures are wrapped as ErrDataUnavailable so callers can
// classify them without knowing the venue.
func getJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", name, err)
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", name, err, model.ErrDataUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: status %d: %s: %w", name, resp.StatusCode, string(body), model.ErrDataUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: decode response: %w", name, model.ErrDataUnavailable)
	}
	return nil
}
