package services

// FieldErrors maps field names to validation messages. It is returned by
// services when a request fails validation and rendered as a 400 response
// with per-field messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	for field, msg := range e {
		return field + ": " + msg
	}
	return "validation failed"
}
