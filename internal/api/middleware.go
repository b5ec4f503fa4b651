package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version of the response envelope. Clients
// check this before parsing anything else.
const envelopeVersion = 1

// envelope is the uniform JSON wrapper around every API response.
//
// Success:        {"v": 1, "success": true, "data": ...}
// Simple error:   {"v": 1, "success": false, "error": "..."}
// Detailed error: {"v": 1, "success": false, "error": "...",
//                  "code": "...", "message": "...", "details": ...}
type envelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload on success"`
	Error   string `json:"error,omitempty" doc:"Error message on failure"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// Registered as a huma transformer, so handlers return plain payloads and
// never see the wrapper. The version field is named exactly "v"; clients
// parse it positionally before anything else.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		env := envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
		}
		if apiErr.Code != "" {
			env.Code = apiErr.Code
			env.Message = apiErr.Message
			env.Details = apiErr.Details
		}
		return env, nil
	}

	// huma's built-in error model also lands here (e.g. request parsing
	// failures before our error handler runs).
	if statusErr, ok := v.(huma.StatusError); ok && statusErr.GetStatus() >= 400 {
		return envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   statusErr.Error(),
		}, nil
	}

	return envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
