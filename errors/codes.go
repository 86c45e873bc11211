package errors

// ErrorCode is a stable machine-readable identifier for a failure.
type ErrorCode string

// Reaching the backend.
const (
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout          ErrorCode = "TIMEOUT"
)

// Input rejected before any request is made.
const (
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Session and account state.
const (
	ErrCodeUnauthorized         ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidCredentials   ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired         ErrorCode = "TOKEN_EXPIRED"
	ErrCodeSubscriptionRequired ErrorCode = "SUBSCRIPTION_REQUIRED"
)

const (
	// ErrCodeUnexpectedResponse marks a reply the client could not decode.
	ErrCodeUnexpectedResponse ErrorCode = "UNEXPECTED_RESPONSE"
	// ErrCodeStorage marks a failure of the local credential file.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// IsRetryableCode reports whether repeating the same call may succeed.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeConnectionFailed, ErrCodeTimeout:
		return true
	}
	return false
}
