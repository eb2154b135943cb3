package utils

type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded lets handlers bail out through the recovery middleware,
// which maps GenericError panics to proper HTTP responses.
func PanicIfNeeded(err any) {
	if err != nil {
		panic(err)
	}
}
