package code

// Error code to message map.
var codeMessageMap = map[int]string{
	// Generic
	ErrSuccess:         "success",
	ErrUnknown:         "unknown error",
	ErrBind:            "request binding error",
	ErrValidation:      "request validation error",
	ErrTokenInvalid:    "invalid authentication token",
	ErrTooManyRequests: "request rate too high",

	// User
	ErrUserNotFound:          "user does not exist",
	ErrUserPasswordIncorrect: "invalid username or password",

	// Work order
	ErrWorkOrderNotFound: "work order does not exist",
	ErrSerialConflict:    "work order serial already exists",
	ErrEditWindowClosed:  "edit window has expired, submit an edit request instead",
	ErrNotOwner:          "work order belongs to another technician",

	// Facility
	ErrFacilityNotFound: "facility does not exist",

	// Edit request
	ErrEditRequestNotFound:  "edit request does not exist",
	ErrEditRequestFinalized: "edit request has already been reviewed",

	// Database
	ErrDatabase:       "database error",
	ErrRecordNotFound: "record does not exist",

	// External collaborators
	ErrExternalService: "external service call failed",
}

// Error code to HTTP status map.
var codeStatusMap = map[int]int{
	// Generic
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// User
	ErrUserNotFound:          StatusNotFound,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// Work order
	ErrWorkOrderNotFound: StatusNotFound,
	ErrSerialConflict:    StatusConflict,
	ErrEditWindowClosed:  StatusConflict,
	ErrNotOwner:          StatusForbidden,

	// Facility
	ErrFacilityNotFound: StatusNotFound,

	// Edit request
	ErrEditRequestNotFound:  StatusNotFound,
	ErrEditRequestFinalized: StatusConflict,

	// Database
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// External collaborators
	ErrExternalService: StatusInternalServerError,
}

// GetMessage returns the message for an error code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus returns the HTTP status for an error code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
