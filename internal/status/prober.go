package status

import (
	"context"
	"net/http"
	"time"

	"github.com/bkmarks/bkmarkd/internal/utils"
)

// Prober performs stateless liveness checks. A HEAD request with a hard
// timeout is tried first; when it fails or times out the prober falls back
// to a plain GET, since some origins reject HEAD outright.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// NewProber creates a prober with the given per-attempt timeout.
func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
		timeout: timeout,
	}
}

// Check probes one URL and returns its classified status. It never returns
// an error: unreachable targets are reported as timeout.
func (p *Prober) Check(ctx context.Context, url string) LinkStatus {
	now := time.Now()

	if code, ok := p.attempt(ctx, http.MethodHead, url); ok {
		return LinkStatus{Status: Classify(code), Code: code, LastCheckedAt: now}
	}
	if code, ok := p.attempt(ctx, http.MethodGet, url); ok {
		return LinkStatus{Status: Classify(code), Code: code, LastCheckedAt: now}
	}
	return LinkStatus{Status: StatusTimeout, LastCheckedAt: now}
}

func (p *Prober) attempt(ctx context.Context, method, url string) (int, bool) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, method, url, http.NoBody)
	if err != nil {
		return 0, false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer utils.Close(resp.Body)

	return resp.StatusCode, true
}
