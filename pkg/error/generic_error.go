package error

// GenericError is implemented by every typed error in this package so the
// REST layer can map errors to an HTTP status and a stable code.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
