// Package httperr defines the JSON error body every endpoint returns.
package httperr

// Response is the error envelope. Status travels in the HTTP status line,
// not the body.
type Response struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Detail  any    `json:"detail,omitempty"`
}

func New(status int, msg string) Response {
	return Response{Status: status, Message: msg}
}
