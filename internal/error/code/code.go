package code

// HTTP status codes used by the code maps.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: malformed request.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: missing or invalid credentials.
	StatusUnauthorized = 401
	// StatusForbidden - 403: insufficient role.
	StatusForbidden = 403
	// StatusNotFound - 404: resource does not exist.
	StatusNotFound = 404
	// StatusConflict - 409: state conflict or duplicate key.
	StatusConflict = 409
	// StatusInternalServerError - 500: internal error.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: rate limited.
	StatusTooManyRequests = 429
)

// Generic error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrTokenInvalid - 401: invalid token.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: request rate too high.
	ErrTooManyRequests
)

// User error codes (101xxx).
const (
	// ErrUserNotFound - 404: user does not exist.
	ErrUserNotFound int = iota + 101000
	// ErrUserPasswordIncorrect - 401: wrong username or password.
	ErrUserPasswordIncorrect
)

// Work order error codes (102xxx).
const (
	// ErrWorkOrderNotFound - 404: work order does not exist.
	ErrWorkOrderNotFound int = iota + 102000
	// ErrSerialConflict - 409: duplicate work order serial.
	ErrSerialConflict
	// ErrEditWindowClosed - 409: self-service edit window has expired.
	ErrEditWindowClosed
	// ErrNotOwner - 403: work order belongs to another technician.
	ErrNotOwner
)

// Facility error codes (103xxx).
const (
	// ErrFacilityNotFound - 404: facility does not exist.
	ErrFacilityNotFound int = iota + 103000
)

// Edit request error codes (104xxx).
const (
	// ErrEditRequestNotFound - 404: edit request does not exist.
	ErrEditRequestNotFound int = iota + 104000
	// ErrEditRequestFinalized - 409: edit request already approved or rejected.
	ErrEditRequestFinalized
)

// Database error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record does not exist.
	ErrRecordNotFound
)

// External collaborator error codes (106xxx).
const (
	// ErrExternalService - 500: collaborator call failed.
	ErrExternalService int = iota + 106000
)
