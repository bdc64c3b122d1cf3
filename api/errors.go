package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call. Controllers branch on the kind, never
// on raw status codes.
type Kind int

const (
	// KindAuthRequired means an authenticated call was attempted with no
	// token present; no network request was made.
	KindAuthRequired Kind = iota
	// KindSessionExpired means the server answered 401. The session has
	// already been cleared by the time the caller sees this error.
	KindSessionExpired
	// KindForbidden means the server answered 403.
	KindForbidden
	// KindNotFound means the server answered 404.
	KindNotFound
	// KindValidation means the server answered 400.
	KindValidation
	// KindServer covers 5xx and any other unclassified non-2xx status.
	KindServer
	// KindNetwork means the request never reached the server.
	KindNetwork
)

// Error is the classified error returned by every Client call.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind returns the classification of err, or KindServer when err is not
// an API error at all.
func ErrorKind(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindServer
}

// IsSessionExpired reports whether err came from a 401 response.
func IsSessionExpired(err error) bool { return isKind(err, KindSessionExpired) }

// IsAuthRequired reports whether err was raised before any network call
// because no token was present.
func IsAuthRequired(err error) bool { return isKind(err, KindAuthRequired) }

// IsNotFound reports whether err came from a 404 response.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsNetwork reports whether err came from a transport failure.
func IsNetwork(err error) bool { return isKind(err, KindNetwork) }

func isKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

// Message returns the user-facing message carried by err, falling back to
// err.Error for non-API errors.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
