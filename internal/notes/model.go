package notes

import "time"

// Note is a free-form note attached to a tracked job.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	JobID     string    `json:"jobId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
