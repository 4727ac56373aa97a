package review

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review mirrors the reviews table. Rows are never updated.
type Review struct {
	ID              int64
	ProfileID       int64
	ClientAccountID int64
	Rating          int
	Comment         string
	CreatedAt       time.Time
}

type AddParams struct {
	ProfileID       int64
	ClientAccountID int64
	Rating          int
	Comment         string
}
