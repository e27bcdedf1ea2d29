package model

import "io"

// UploadKind selects which row validation and mapping strategy applies to an uploaded file.
type UploadKind string

const (
	UploadKindEnrollment UploadKind = "ENROLLMENT"
	// UploadKindLinkedIn is accepted but not processed yet; ingesting it yields an empty result.
	UploadKindLinkedIn UploadKind = "LINKEDIN"
)

// UploadFile is the uploaded file as received from the transport layer.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadRequest describes one extraction upload. It lives for a single request.
type UploadRequest struct {
	Kind      UploadKind
	FacultyID string
	CourseID  string
	File      *UploadFile
}

// ParsedTable is a delimited file split into its header row and data rows.
// Every row has exactly len(Headers) columns.
type ParsedTable struct {
	Headers []string
	Rows    [][]string
}

// IngestResult is what an accepted extraction produced.
type IngestResult struct {
	Headers []string     `json:"headers"`
	Records []Enrollment `json:"records"`
}
