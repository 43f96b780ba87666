package submissions

import "context"

// Repo defines persistence operations for submissions.
type Repo interface {
	Create(ctx context.Context, sub Submission) error
	ListAll(ctx context.Context) ([]Submission, error)
}
