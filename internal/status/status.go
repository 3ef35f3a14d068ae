package status

import "time"

// Liveness classifications for a checked link.
const (
	StatusOK          = "ok"
	StatusRedirect    = "redirect"
	StatusClientError = "client_error"
	StatusServerError = "server_error"
	StatusTimeout     = "timeout"
	StatusUnknown     = "unknown"
)

// LinkStatus is the last observed liveness of one bookmark URL.
type LinkStatus struct {
	Status        string    `json:"status"`
	Code          int       `json:"code,omitempty"`
	LastCheckedAt time.Time `json:"lastCheckedAt"`
}

// LinkStatusMap maps normalized URL to its latest status.
type LinkStatusMap map[string]LinkStatus

// Classify maps an HTTP status code to a liveness class.
func Classify(code int) string {
	switch {
	case code >= 200 && code < 300:
		return StatusOK
	case code >= 300 && code < 400:
		return StatusRedirect
	case code >= 400 && code < 500:
		return StatusClientError
	case code >= 500 && code < 600:
		return StatusServerError
	default:
		return StatusUnknown
	}
}
