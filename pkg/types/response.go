// Package types holds the JSON envelopes every endpoint answers with.
package types

// SuccessEnvelope wraps successful payloads under a "data" key so clients
// never have to sniff the top-level shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details is populated only for
// codes where pkg/errors allows it (validation fields, conflicting status).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under an "error" key, mirroring SuccessEnvelope.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
