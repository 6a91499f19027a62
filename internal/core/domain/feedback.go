package domain

import "time"

// Feedback is free text submitted by a user. Write-only.
type Feedback struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time
}
