package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the "v" field of every v1 response.
const EnvelopeVersion = 1

// Envelope wraps every v1 response body.
// Success: {"v":1,"success":true,"data":...}
// Error:   {"v":1,"success":false,"error":"...","code":"...","details":...}
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer is a huma transformer that wraps response bodies in an Envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if _, ok := v.(Envelope); ok {
		return v, nil
	}

	code, _ := strconv.Atoi(status)
	if code >= 400 {
		env := Envelope{Version: EnvelopeVersion}
		switch e := v.(type) {
		case *APIError:
			env.Error = e.Message
			env.Code = e.Code
			env.Message = e.Message
			env.Details = e.Details
		case *huma.ErrorModel:
			env.Error = e.Detail
			env.Code = statusToCode(code)
			env.Message = e.Detail
		case error:
			env.Error = e.Error()
			env.Code = statusToCode(code)
		}
		return env, nil
	}

	return Envelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}
