package error

import (
	"fmt"
	"net/http"
)

// InvalidResponseError covers a non-2xx status as well as a 2xx body that
// fails to decode. DebugID/Issue/Description are filled from the error
// payload when the service supplies one.
type InvalidResponseError struct {
	HTTPStatus  int
	DebugID     string
	Issue       string
	Description string
}

func (err InvalidResponseError) Error() string {
	if err.Issue != "" {
		return fmt.Sprintf("invalid response (status %d): %s: %s", err.HTTPStatus, err.Issue, err.Description)
	}
	return fmt.Sprintf("invalid response (status %d)", err.HTTPStatus)
}

func (err InvalidResponseError) ErrCode() string {
	return "INVALID_RESPONSE"
}

func (err InvalidResponseError) StatusCode() int {
	return http.StatusBadGateway
}
