package error

import "net/http"

// IncompleteError is the defensive fallback for a batch slot that was never
// filled before delivery.
type IncompleteError string

func (err IncompleteError) Error() string {
	return string(err)
}

func (err IncompleteError) ErrCode() string {
	return "INCOMPLETE"
}

func (err IncompleteError) StatusCode() int {
	return http.StatusInternalServerError
}
