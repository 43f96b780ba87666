package submissions

import "time"

// SubmissionResponse is the outward-facing representation of a submission.
type SubmissionResponse struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	OwnerName    string    `json:"ownerName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	BusinessType string    `json:"businessType"`
	PreparerName string    `json:"preparerName"`
	DocumentURLs []string  `json:"documentUrls"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toResponse(sub Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           sub.ID,
		BusinessName: sub.BusinessName,
		OwnerName:    sub.OwnerName,
		Email:        sub.Email,
		Phone:        sub.Phone,
		Location:     sub.Location,
		BusinessType: sub.BusinessType,
		PreparerName: sub.PreparerName,
		DocumentURLs: sub.DocumentURLs,
		CreatedAt:    sub.CreatedAt,
	}
}
