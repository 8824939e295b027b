package diary

import "fmt"

// ConnectivityError wraps a transport failure: the backend could not be
// reached at all, or the connection died mid-request.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// AuthError is a rejected login or an invalid token.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "login failed: " + e.Message
}

// FetchError is a non-success response from the meal query endpoint.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch meals: %s (status %d)", e.Message, e.Status)
}

// UploadError is a non-success response from the upload endpoint.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload meal: %s (status %d)", e.Message, e.Status)
}

// ReportError is a non-success response from the report endpoint.
type ReportError struct {
	Status  int
	Message string
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("failed to generate report: %s (status %d)", e.Message, e.Status)
}

// ValidationError is a client-side precondition failure. It is raised before
// any network call is attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
