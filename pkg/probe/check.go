package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrUnhealthy = errors.New("unhealthy")

// Check issues the same request an orchestrator probe would: a plain GET
// with the client's default User-Agent. Any status other than 200 is an
// error.
func Check(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating probe request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrUnhealthy, url, resp.StatusCode)
	}

	return nil
}
