package model

import "time"

// Document is the metadata of an uploaded file. The bytes live in object
// storage under FilePath.
type Document struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	// FileSize is nil when the backend row carries no size.
	FileSize    *int64    `json:"file_size"`
	FileType    string    `json:"file_type,omitempty"`
	SubjectID   *string   `json:"subject_id"`
	SubjectName string    `json:"subject_name,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentUpdate carries the editable metadata of a document.
// A nil SubjectID unlinks the document from its subject.
type DocumentUpdate struct {
	SubjectID *string
	Tags      []string
}

// Stats summarises a user's library.
type Stats struct {
	TotalDocuments int     `json:"total_documents"`
	TotalSubjects  int     `json:"total_subjects"`
	TotalTags      int     `json:"total_tags"`
	TotalSizeMB    float64 `json:"total_size_mb"`
}
