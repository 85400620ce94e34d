// Package dto defines data transfer objects for API requests and responses.
package dto

// Response is the envelope returned by every ledger and import endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK builds a successful response.
func OK(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Fail builds a failed response.
func Fail(message, code, kind string) Response {
	return Response{
		Message: message,
		Code:    code,
		Kind:    kind,
	}
}
