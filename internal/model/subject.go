package model

import "time"

// Subject is a user-defined category for documents.
type Subject struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SubjectSummary is a subject together with the number of documents filed under it.
type SubjectSummary struct {
	Subject
	DocumentCount int `json:"document_count"`
}
