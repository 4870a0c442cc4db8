package authclient

// Kind classifies an Auth Client failure.
type Kind int

const (
	// KindValidation is an input error the user can fix, including a taken email.
	KindValidation Kind = iota + 1
	// KindInvalidCredentials is a 401. Unknown user and wrong password look the same.
	KindInvalidCredentials
	// KindNetwork is a transport failure such as a refused connection or a timeout.
	KindNetwork
	// KindServer is a 5xx.
	KindServer
	// KindInvalidResponse means the body could not be decoded.
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgNetwork            = "Network connection failed. Please check your internet."
	MsgServer             = "Something went wrong. Please try again."
	MsgInvalidResponse    = "Invalid response from server"

	MsgInvalidEmail  = "Please enter a valid email address"
	MsgEmptyPassword = "Password cannot be empty"
	MsgEmptyName     = "Name cannot be empty"
	MsgWeakPassword  = "Password must be at least 8 characters with letters and numbers"
)

// Error is the only error type returned by Client. Message is safe to show to the user.
// Err keeps the underlying cause for logging and is never shown.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation error"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: MsgInvalidCredentials}
	ErrNetwork            = &Error{Kind: KindNetwork, Message: MsgNetwork}
	ErrServer             = &Error{Kind: KindServer, Message: MsgServer}
	ErrInvalidResponse    = &Error{Kind: KindInvalidResponse, Message: MsgInvalidResponse}
)

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func invalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: MsgInvalidCredentials}
}

func networkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: cause}
}

func serverError(cause error) *Error {
	return &Error{Kind: KindServer, Message: MsgServer, Err: cause}
}

func invalidResponse(cause error) *Error {
	return &Error{Kind: KindInvalidResponse, Message: MsgInvalidResponse, Err: cause}
}
