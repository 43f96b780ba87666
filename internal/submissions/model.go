package submissions

import "time"

// Submission is one completed tax-details form. Records are written once
// and never updated or deleted by this system.
type Submission struct {
	ID           string
	BusinessName string
	OwnerName    string
	Email        string
	Phone        string
	Location     string
	BusinessType string
	PreparerName string
	DocumentURLs []string
	CreatedAt    time.Time
}

// SubmissionInput carries the free-text form fields before validation.
type SubmissionInput struct {
	BusinessName string
	OwnerName    string
	Email        string
	Phone        string
	Location     string
	BusinessType string
	PreparerName string
}
