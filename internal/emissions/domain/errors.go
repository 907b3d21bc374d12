package domain

// ValidationError reports bad or missing caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil || e.Message == "" {
		return "validation error"
	}
	return e.Message
}

// EmptyDataError reports that there is nothing to report on.
type EmptyDataError struct {
	Message string
}

func (e *EmptyDataError) Error() string {
	if e == nil || e.Message == "" {
		return "no data"
	}
	return e.Message
}

// NotFoundError reports an absent upstream result for a keyed lookup.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Message == "" {
		return "not found"
	}
	return e.Message
}

func NewValidationError(msg string) error { return &ValidationError{Message: msg} }
func NewEmptyDataError(msg string) error  { return &EmptyDataError{Message: msg} }
func NewNotFoundError(msg string) error   { return &NotFoundError{Message: msg} }
