package routes

import (
	"errors"
	"net/http"

	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/booking"
	"parcelpoint-web/internal/jwt"
	"parcelpoint-web/internal/storage"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error    // The underlying error
	StatusCode int      // HTTP status code
	Message    string   // User-friendly message
	StopCodes  []string // Optional stop codes for client-side handling
	Internal   bool     // Whether this is an internal error (hide details from user)
}

// ErrorInfo contains error metadata for user-facing errors
type ErrorInfo struct {
	Message   string   // User-friendly message
	StopCodes []string // Optional stop codes for client-side application
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(statusCode int, err error, message string, stopCodes ...string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		StopCodes:  stopCodes,
		Internal:   statusCode >= 500,
	}
}

var (
	// Session errors
	ErrSessionMissing = errors.New("booking session missing")

	// Lookup errors
	ErrLocationNotFound = errors.New("location not found")
	ErrPageNotFound     = errors.New("page not found")

	// Validation errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Internal errors
	ErrInternalServer     = errors.New("internal server error")
	ErrDatabaseError      = errors.New("database error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrInvalidRequest:            http.StatusBadRequest,
	ErrMissingParameter:          http.StatusBadRequest,
	ErrInvalidParameter:          http.StatusBadRequest,
	booking.ErrUnknownLockerSize: http.StatusBadRequest,
	api.ErrInvalid:               http.StatusBadRequest,

	// 401 Unauthorized
	jwt.ErrNonValidToken: http.StatusUnauthorized,
	ErrSessionMissing:    http.StatusUnauthorized,

	// 404 Not Found
	ErrLocationNotFound:        http.StatusNotFound,
	ErrPageNotFound:            http.StatusNotFound,
	booking.ErrBookingNotFound: http.StatusNotFound,
	api.ErrNotFound:            http.StatusNotFound,

	// 409 Conflict
	api.ErrConflict: http.StatusConflict,

	// 500 Internal Server Error
	ErrInternalServer: http.StatusInternalServerError,
	ErrDatabaseError:  http.StatusInternalServerError,

	// 502 Bad Gateway
	api.ErrTransient: http.StatusBadGateway,

	// 503 Service Unavailable
	ErrServiceUnavailable:          http.StatusServiceUnavailable,
	storage.ErrNoStorageConfigured: http.StatusServiceUnavailable,
}

// errorInfoMap maps errors to user-friendly messages and optional stop codes
var errorInfoMap = map[error]ErrorInfo{
	ErrSessionMissing: {
		Message:   "Your booking session has expired. Please start again.",
		StopCodes: []string{"SESSION_EXPIRED"},
	},
	jwt.ErrNonValidToken: {
		Message:   "Your booking session has expired. Please start again.",
		StopCodes: []string{"SESSION_INVALID"},
	},

	ErrLocationNotFound: {
		Message:   "We could not find that location",
		StopCodes: []string{"LOCATION_NOT_FOUND"},
	},
	ErrPageNotFound: {
		Message:   "The page you are looking for does not exist",
		StopCodes: []string{"NOT_FOUND"},
	},
	booking.ErrBookingNotFound: {
		Message:   "Booking not found",
		StopCodes: []string{"BOOKING_NOT_FOUND"},
	},

	ErrInvalidRequest: {
		Message:   "Invalid request format",
		StopCodes: []string{"INVALID_REQUEST"},
	},
	ErrMissingParameter: {
		Message:   "Required parameter is missing",
		StopCodes: []string{"MISSING_PARAMETER"},
	},
	ErrInvalidParameter: {
		Message:   "Invalid parameter value",
		StopCodes: []string{"INVALID_PARAMETER"},
	},
	booking.ErrUnknownLockerSize: {
		Message:   "Unknown locker size",
		StopCodes: []string{"INVALID_LOCKER_SIZE"},
	},

	api.ErrTransient: {
		Message:   "The locker service is not responding. Please try again.",
		StopCodes: []string{"UPSTREAM_UNAVAILABLE"},
	},

	// Internal (no stop codes for internal errors)
	ErrInternalServer: {
		Message: "An internal error occurred",
	},
	ErrDatabaseError: {
		Message: "Database operation failed",
	},
	ErrServiceUnavailable: {
		Message: "Service is temporarily unavailable",
	},
	storage.ErrNoStorageConfigured: {
		Message: "Storage service is not available",
	},
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	if status, ok := errorStatusMap[err]; ok {
		return status
	}

	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	return http.StatusInternalServerError
}

// GetErrorInfo returns error information including message and stop codes
func GetErrorInfo(err error) ErrorInfo {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return ErrorInfo{
			Message:   httpErr.Message,
			StopCodes: httpErr.StopCodes,
		}
	}

	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for knownErr, info := range errorInfoMap {
		if errors.Is(err, knownErr) {
			return info
		}
	}

	// The upstream API's own message is safe to show for 4xx answers.
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return ErrorInfo{Message: apiErr.Message}
	}

	status := GetErrorStatus(err)
	if status >= 500 {
		return ErrorInfo{Message: "An internal error occurred"}
	}
	return ErrorInfo{Message: err.Error()}
}

func GetErrorMessage(err error) string {
	return GetErrorInfo(err).Message
}

func GetErrorStopCodes(err error) []string {
	return GetErrorInfo(err).StopCodes
}
