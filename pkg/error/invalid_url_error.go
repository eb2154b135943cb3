package error

import "net/http"

// InvalidURLError means a message query could not be serialized into a
// request URL (missing client id, unknown environment).
type InvalidURLError string

func (err InvalidURLError) Error() string {
	return string(err)
}

func (err InvalidURLError) ErrCode() string {
	return "INVALID_URL"
}

func (err InvalidURLError) StatusCode() int {
	return http.StatusBadRequest
}
