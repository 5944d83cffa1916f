package services

// ServiceError is a typed error with an HTTP status code. Details carries
// extra context for observability and is safe to return to back-office
// callers; Message is what end-facing responses show.
type ServiceError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *ServiceError) Error() string { return e.Message }
