package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrConflict        = 1005
	ErrTooManyRequests = 1006
	ErrBadRequest      = 1007
	ErrServiceUnavail  = 1008
	ErrDatabase        = 1009

	// Auth errors (2000-2999)
	ErrAuthInvalidCredentials = 2000
	ErrAuthUserNotFound       = 2001
	ErrAuthEmailExists        = 2002
	ErrAuthInvalidToken       = 2006
	ErrAuthTokenExpired       = 2007
	ErrAuthWeakPassword       = 2008
	ErrAuthInvalidEmail       = 2009
	ErrAuthOAuthFailed        = 2010
	ErrAuthInvalidState       = 2011

	// User errors (3000-3999)
	ErrUserNotFound     = 3000
	ErrUserInvalidInput = 3002

	// Museum search errors (4000-4999)
	ErrMuseumUnknown       = 4000
	ErrMuseumNotConfigured = 4001
	ErrMuseumSuperseded    = 4002
	ErrMuseumUnavailable   = 4003

	// Collection errors (5000-5999)
	ErrCollectionNotFound     = 5000
	ErrCollectionNameRequired = 5001
	ErrCollectionDuplicate    = 5002
	ErrCollectionInvalidInput = 5003
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrConflict:        {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},
	ErrDatabase:        {ErrDatabase, http.StatusInternalServerError, "Database operation failed"},

	// Auth errors
	ErrAuthInvalidCredentials: {ErrAuthInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	ErrAuthUserNotFound:       {ErrAuthUserNotFound, http.StatusNotFound, "User not found"},
	ErrAuthEmailExists:        {ErrAuthEmailExists, http.StatusConflict, "Email already exists"},
	ErrAuthInvalidToken:       {ErrAuthInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	ErrAuthTokenExpired:       {ErrAuthTokenExpired, http.StatusUnauthorized, "Token expired"},
	ErrAuthWeakPassword:       {ErrAuthWeakPassword, http.StatusBadRequest, "Password is too weak"},
	ErrAuthInvalidEmail:       {ErrAuthInvalidEmail, http.StatusBadRequest, "Invalid email format"},
	ErrAuthOAuthFailed:        {ErrAuthOAuthFailed, http.StatusUnauthorized, "OAuth sign-in failed"},
	ErrAuthInvalidState:       {ErrAuthInvalidState, http.StatusBadRequest, "Invalid or expired OAuth state"},

	// User errors
	ErrUserNotFound:     {ErrUserNotFound, http.StatusNotFound, "User not found"},
	ErrUserInvalidInput: {ErrUserInvalidInput, http.StatusBadRequest, "Invalid user input"},

	// Museum search errors
	ErrMuseumUnknown:       {ErrMuseumUnknown, http.StatusBadRequest, "Unknown or disabled museum"},
	ErrMuseumNotConfigured: {ErrMuseumNotConfigured, http.StatusServiceUnavailable, "Museum API key is not configured"},
	ErrMuseumSuperseded:    {ErrMuseumSuperseded, http.StatusConflict, "Search superseded by a newer request"},
	ErrMuseumUnavailable:   {ErrMuseumUnavailable, http.StatusServiceUnavailable, "No museum source is available"},

	// Collection errors
	ErrCollectionNotFound:     {ErrCollectionNotFound, http.StatusNotFound, "Collection not found"},
	ErrCollectionNameRequired: {ErrCollectionNameRequired, http.StatusBadRequest, "Please enter a collection name"},
	ErrCollectionDuplicate:    {ErrCollectionDuplicate, http.StatusConflict, "This artwork is already in the collection"},
	ErrCollectionInvalidInput: {ErrCollectionInvalidInput, http.StatusBadRequest, "Invalid artwork"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
