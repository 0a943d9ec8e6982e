package ports

import (
	"encoding/json"
	"errors"
	"fmt"

	apierrors "github.com/Apurer/gamestore-client/internal/shared/errors"
)

// Kind classifies why a storefront operation failed.
type Kind int

const (
	// KindServerRejected: the API answered with a non-2xx status or an unusable body.
	KindServerRejected Kind = iota + 1
	// KindUnreachable: the request was sent but no response arrived.
	KindUnreachable
	// KindRequestSetupFailed: the request could not be built or sent.
	KindRequestSetupFailed
	// KindLocalPrecondition: the operation needs state the client does not have.
	KindLocalPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindServerRejected:
		return "server_rejected"
	case KindUnreachable:
		return "unreachable"
	case KindRequestSetupFailed:
		return "request_setup_failed"
	case KindLocalPrecondition:
		return "local_precondition"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against *Error.
var (
	ErrServerRejected = errors.New("server rejected request")
	ErrUnreachable    = errors.New("no response from server")
	ErrRequestSetup   = errors.New("request setup failed")
	ErrNoToken        = errors.New("no authentication token found")
)

// Fixed user-facing messages.
const (
	MessageUnreachable = "no response from server. Please check your connection."
	MessageNoToken     = "no authentication token found"
	MessageBadResponse = "invalid response format from server"
)

// Error is the single normalized failure value surfaced by storefront
// operations.
type Error struct {
	Kind Kind
	// Op names the operation, e.g. "login".
	Op string
	// Status is the HTTP status for KindServerRejected.
	Status int
	// Message is the normalized, user-facing description.
	Message string
	// Payload is the verbatim response body for KindServerRejected.
	Payload json.RawMessage
	// Problem is set when the payload was an RFC 7807 document.
	Problem *apierrors.ProblemDetail
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is against the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrServerRejected:
		return e.Kind == KindServerRejected
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	case ErrRequestSetup:
		return e.Kind == KindRequestSetupFailed
	case ErrNoToken:
		return e.Kind == KindLocalPrecondition
	default:
		return false
	}
}

// Rejected builds a KindServerRejected error.
func Rejected(op string, status int, message string, payload []byte, cause error) *Error {
	return &Error{Kind: KindServerRejected, Op: op, Status: status, Message: message, Payload: json.RawMessage(payload), Err: cause}
}

// Unreachable builds a KindUnreachable error.
func Unreachable(op string, cause error) *Error {
	return &Error{Kind: KindUnreachable, Op: op, Message: MessageUnreachable, Err: cause}
}

// SetupFailed builds a KindRequestSetupFailed error.
func SetupFailed(op string, cause error) *Error {
	msg := "error setting up request"
	if cause != nil {
		msg = fmt.Sprintf("error setting up %s request: %s", op, cause.Error())
	}
	return &Error{Kind: KindRequestSetupFailed, Op: op, Message: msg, Err: cause}
}

// NoToken builds a KindLocalPrecondition error for unauthenticated calls.
func NoToken(op string) *Error {
	return &Error{Kind: KindLocalPrecondition, Op: op, Message: MessageNoToken}
}

// KindOf extracts the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
