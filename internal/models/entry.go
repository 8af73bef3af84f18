package models

import "time"

// Entry is one logged trash collection. Collector and UserID are fixed at
// creation; edits may only touch Type, Quantity, Location and Date.
type Entry struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Quantity   float64   `json:"quantity"`
	Location   string    `json:"location"`
	Date       string    `json:"date"` // ISO yyyy-mm-dd, validated upstream
	Collector  string    `json:"collector"`
	Department string    `json:"department"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntryUpdate carries the mutable subset of an entry.
type EntryUpdate struct {
	Type     string
	Quantity float64
	Location string
	Date     string
}
