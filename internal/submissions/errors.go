package submissions

import "fmt"

// ValidationError reports the first form rule that failed. No network
// activity happens before validation passes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UploadError reports a rejected document upload. Uploads that finished
// before the failure stay in storage; there is no rollback.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError reports a failed record write after all uploads succeeded.
// The uploaded objects remain orphaned.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist submission: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
