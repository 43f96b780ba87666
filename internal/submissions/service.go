package submissions

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"taxintake-backend/internal/shared/metrics"
	"taxintake-backend/internal/shared/storage/object"
	"taxintake-backend/internal/shared/telemetry"
	"taxintake-backend/internal/shared/util"
)

// FileUpload is one document attached to a form submission.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// Service contains the submission workflow: validate locally, upload
// documents one at a time in input order, then write one record holding
// the resulting URLs. There is no atomicity across the two remote
// systems; an upload or persist failure leaves earlier uploads in place.
type Service struct {
	Store object.Store
	Repo  Repo
}

// Submit runs the full submission workflow. The first failing validation
// rule aborts before any network call; the first failing upload aborts the
// remaining sequence.
func (s *Service) Submit(ctx context.Context, input SubmissionInput, files []FileUpload) (Submission, error) {
	if verr := validate(input, len(files)); verr != nil {
		return Submission{}, verr
	}

	metrics.IncSubmissionStarted()

	urls := make([]string, 0, len(files))
	for _, file := range files {
		name, err := s.uploadOne(ctx, file)
		if err != nil {
			metrics.IncSubmissionFailed()
			return Submission{}, err
		}
		url, ok := s.Store.PublicURL(name)
		if !ok {
			metrics.IncSubmissionFailed()
			return Submission{}, &UploadError{Name: name, Err: fmt.Errorf("no public URL for stored object")}
		}
		urls = append(urls, url)
	}

	sub := Submission{
		ID:           uuid.NewString(),
		BusinessName: input.BusinessName,
		OwnerName:    input.OwnerName,
		Email:        input.Email,
		Phone:        input.Phone,
		Location:     input.Location,
		BusinessType: input.BusinessType,
		PreparerName: input.PreparerName,
		DocumentURLs: urls,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, sub); err != nil {
		metrics.IncSubmissionFailed()
		telemetry.Error("submission.persist_failed", map[string]any{
			"submission_id": sub.ID,
			"documents":     len(urls),
			"err":           err.Error(),
		})
		return Submission{}, &PersistError{Err: err}
	}

	metrics.IncSubmissionCompleted()
	telemetry.Info("submission.created", map[string]any{
		"submission_id": sub.ID,
		"documents":     len(urls),
	})
	return sub, nil
}

// uploadOne stores a single document under a collision-resistant name and
// returns the stored name.
func (s *Service) uploadOne(ctx context.Context, file FileUpload) (string, error) {
	sanitized, err := util.SanitizeFileName(file.Name)
	if err != nil {
		return "", &UploadError{Name: file.Name, Err: err}
	}
	name := uuid.NewString() + "_" + sanitized

	start := time.Now()
	if _, err := s.Store.Upload(ctx, name, file.Content); err != nil {
		return "", &UploadError{Name: name, Err: err}
	}
	metrics.ObserveUploadDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return name, nil
}

// List returns all persisted submissions in store order.
func (s *Service) List(ctx context.Context) ([]Submission, error) {
	return s.Repo.ListAll(ctx)
}

// ListStoredObjectNames enumerates raw storage entries. The admin table
// renders from record URLs; this listing exists for completeness and
// debugging.
func (s *Service) ListStoredObjectNames(ctx context.Context) ([]string, error) {
	return s.Store.List(ctx)
}

// ResolvePublicURL maps a stored object name to a fetchable URL.
func (s *Service) ResolvePublicURL(name string) (string, bool) {
	return s.Store.PublicURL(name)
}
