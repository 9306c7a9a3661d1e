package jobs

import "time"

const (
	StatusSaved        = "saved"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusRejected     = "rejected"
)

// Job is a tracked job posting.
type Job struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Link        string    `json:"link,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ValidStatus reports whether s is one of the allowed pipeline states.
func ValidStatus(s string) bool {
	switch s {
	case StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	}
	return false
}
