// Package types holds the wire-level envelope shared by every catalog
// API response.
package types

// SuccessEnvelope wraps every 2xx payload under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body: a stable machine-readable code,
// a message safe to show to clients, and optional structured details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError for non-2xx responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
