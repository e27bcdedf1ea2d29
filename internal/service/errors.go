package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("enrollment not found")
)

// IngestErrorKind classifies why an extraction upload was rejected.
type IngestErrorKind int

const (
	KindMissingFile IngestErrorKind = iota + 1
	KindInvalidType
	KindTooLarge
	KindMissingField
	KindMissingColumns
	KindIncompleteRow
	KindMalformedStatus
	KindMalformedFile
	KindUnknownKind
)

// Code is the stable machine-readable name of the kind, used in API error bodies.
func (k IngestErrorKind) Code() string {
	switch k {
	case KindMissingFile:
		return "MISSING_FILE"
	case KindInvalidType:
		return "INVALID_FILE_TYPE"
	case KindTooLarge:
		return "FILE_TOO_LARGE"
	case KindMissingField:
		return "MISSING_FIELD"
	case KindMissingColumns:
		return "MISSING_COLUMNS"
	case KindIncompleteRow:
		return "INCOMPLETE_ROW"
	case KindMalformedStatus:
		return "MALFORMED_STATUS"
	case KindMalformedFile:
		return "MALFORMED_FILE"
	case KindUnknownKind:
		return "UNKNOWN_KIND"
	default:
		return "VALIDATION_ERROR"
	}
}

// IngestError is a client-input error raised while validating an extraction upload.
// Only the payload fields relevant to Kind are set.
type IngestError struct {
	Kind    IngestErrorKind
	Message string

	Row     int      // 1-indexed data row, for IncompleteRow and MalformedStatus
	Columns []string // missing headers or fields
	Limit   int64    // byte limit, for TooLarge
	Value   string   // rejected content type, upload kind or status text
	err     error
}

func (e *IngestError) Error() string { return e.Message }

func (e *IngestError) Unwrap() error { return e.err }

// Details returns the structured payload for API responses.
func (e *IngestError) Details() map[string]any {
	d := map[string]any{}
	if e.Row > 0 {
		d["row"] = e.Row
	}
	if len(e.Columns) > 0 {
		d["columns"] = e.Columns
	}
	if e.Limit > 0 {
		d["limitBytes"] = e.Limit
	}
	if e.Value != "" {
		d["value"] = e.Value
	}
	if len(d) == 0 {
		return nil
	}
	return d
}

// AsIngestError reports whether err carries an *IngestError.
func AsIngestError(err error) (*IngestError, bool) {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

func errMissingFile() error {
	return &IngestError{Kind: KindMissingFile, Message: "no file uploaded"}
}

func errInvalidType(contentType string, allowed []string) error {
	return &IngestError{
		Kind:    KindInvalidType,
		Message: fmt.Sprintf("invalid file type %q: only %s files are accepted", contentType, strings.Join(allowed, ", ")),
		Value:   contentType,
	}
}

func errTooLarge(limit int64) error {
	return &IngestError{
		Kind:    KindTooLarge,
		Message: fmt.Sprintf("file exceeds the maximum size of %d bytes (%s)", limit, humanize.IBytes(uint64(limit))),
		Limit:   limit,
	}
}

func errMissingField(fields []string) error {
	return &IngestError{
		Kind:    KindMissingField,
		Message: fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")),
		Columns: fields,
	}
}

func errMissingColumns(cols []string) error {
	return &IngestError{
		Kind:    KindMissingColumns,
		Message: fmt.Sprintf("missing required headers: %s", strings.Join(cols, ", ")),
		Columns: cols,
	}
}

func errIncompleteRow(row int, required []string) error {
	return &IngestError{
		Kind:    KindIncompleteRow,
		Message: fmt.Sprintf("row %d: all fields are required (%s)", row, strings.Join(required, ", ")),
		Row:     row,
		Columns: required,
	}
}

func errMalformedStatus(row int, status string) error {
	return &IngestError{
		Kind:    KindMalformedStatus,
		Message: fmt.Sprintf("row %d: invalid status %q, expected format STATUS(YEAR/YEAR)", row, status),
		Row:     row,
		Value:   status,
	}
}

func errMalformedFile(err error) error {
	return &IngestError{
		Kind:    KindMalformedFile,
		Message: fmt.Sprintf("malformed csv file: %v", err),
		err:     err,
	}
}

func errUnknownKind(kind string) error {
	return &IngestError{
		Kind:    KindUnknownKind,
		Message: fmt.Sprintf("unknown extraction kind %q", kind),
		Value:   kind,
	}
}
