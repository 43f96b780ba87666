package submissions

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// validate applies the form rules in order and returns the first failure.
func validate(input SubmissionInput, fileCount int) *ValidationError {
	if !emailPattern.MatchString(input.Email) {
		return &ValidationError{Field: "email", Reason: "must look like local@domain"}
	}
	if !phonePattern.MatchString(input.Phone) {
		return &ValidationError{Field: "phone", Reason: "must be 10-15 digits, optionally prefixed with +"}
	}
	if fileCount == 0 {
		return &ValidationError{Field: "documents", Reason: "at least one document is required"}
	}
	return nil
}
