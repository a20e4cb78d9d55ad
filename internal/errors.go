package internal

import "net/http"

const (
	// ErrCodeUnknown is the error code for unknown errors
	ErrCodeUnknown = "UNKNOWN_ERROR"
	// ErrCodeRepoError is returned when the request to a repo fails with an error
	ErrCodeRepoError = "STORAGE_QUERY_FAILED"
	// ErrCodeRequiredFieldMissing is returned when at least one required field has not been populated on an incoming
	// request
	ErrCodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	// ErrCodeIllegalJSON is returned when the request did not contain a valid JSON body
	ErrCodeIllegalJSON = "ILLEGAL_JSON_REQUEST"
	// ErrCodeIllegalValue is returned when any field in the transferred data does not validate for some reason
	ErrCodeIllegalValue = "ILLEGAL_VALUE"
	// ErrCodeHackathonNotFound is returned when an operation works on a hackathon that does not exist
	ErrCodeHackathonNotFound = "HACKATHON_NOT_FOUND"
	// ErrCodeDuplicateHackathon is returned when a new hackathon shares its title or source URL with an existing one
	ErrCodeDuplicateHackathon = "DUPLICATE_HACKATHON"
	// ErrCodeTagNotFound is returned when a tag should be removed from the catalog that is not part of it
	ErrCodeTagNotFound = "TAG_NOT_FOUND"
	// ErrCodeLoginFailed is returned when the user fails to login for some reason
	ErrCodeLoginFailed = "LOGIN_FAILED"
	// ErrCodeNotLoggedIn is returned when the user tried to access an API that needs a logged-in user, but the user
	// has no authenticated session
	ErrCodeNotLoggedIn = "NOT_LOGGED_IN"
)

var (
	// ErrNotFound is returned when the requested hackathon does not exist
	ErrNotFound = MakeError(http.StatusNotFound, ErrCodeHackathonNotFound, "Hackathon not found")
	// ErrDuplicateConflict is returned when a hackathon with the same title or source URL already exists
	ErrDuplicateConflict = MakeError(
		http.StatusConflict,
		ErrCodeDuplicateHackathon,
		"Duplicate hackathon detected (Title or Source URL matches existing record)",
	)
	// ErrInvalidCredentials is returned when the login credentials do not match
	ErrInvalidCredentials = MakeError(http.StatusUnauthorized, ErrCodeLoginFailed, "Invalid credentials")
	// ErrNotLoggedIn is returned by the admin gate when no valid session token has been sent
	ErrNotLoggedIn = MakeError(http.StatusForbidden, ErrCodeNotLoggedIn, "This function needs a logged-in user")
	// ErrTagNotFound is returned when removing a tag that is not in the catalog
	ErrTagNotFound = MakeError(http.StatusNotFound, ErrCodeTagNotFound, "Tag is not part of the catalog")
)

// HTTPError is an error that contains information about the error message to return to the client
type HTTPError struct {
	message string
	code    string
	status  int
	data    interface{}
}

// MakeError creates a new HTTPError with the given contents
func MakeError(status int, code, message string) *HTTPError {
	return MakeErrorWithData(status, code, message, nil)
}

// MakeErrorWithData creates a new HTTPError with the given contents and an additional data element
func MakeErrorWithData(status int, code, message string, data interface{}) *HTTPError {
	return &HTTPError{message, code, status, data}
}

// makeRepoError wraps a storage failure into the error returned to the client
func makeRepoError(message string, err error) *HTTPError {
	return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError, message, err)
}

// Error implements the errorer interface
func (e *HTTPError) Error() string {
	return e.message
}

// Status returns the HTTP status that should be returned
func (e *HTTPError) Status() int {
	return e.status
}

// ErrorCode returns the machine-readable error code
func (e *HTTPError) ErrorCode() string {
	return e.code
}

// Data returns additional data about the error
func (e *HTTPError) Data() interface{} {
	return e.data
}
