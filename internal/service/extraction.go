package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"alumniapi/internal/config"
	"alumniapi/internal/model"
	"alumniapi/internal/notify"
	"alumniapi/internal/repository"
	"alumniapi/internal/storage"
)

var tracer = otel.Tracer("alumniapi/internal/service")

// ExtractionService defines the extraction ingestion use case.
type ExtractionService interface {
	// Ingest validates an uploaded extraction file, maps its rows and persists them as one batch.
	// Either every row is accepted and submitted, or the call fails and nothing is written.
	// Validation failures are returned as *IngestError; anything else is a server error.
	// The content type is matched without parameters, so "text/csv; charset=utf-8" is accepted.
	Ingest(ctx context.Context, req model.UploadRequest) (*model.IngestResult, error)
}

// Runner runs post-commit hooks detached from the request.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

// ExtractionDeps wires the collaborators of the extraction pipeline.
type ExtractionDeps struct {
	Config   config.IngestConfig
	Store    storage.Storage
	Repo     repository.EnrollmentRepository
	Notifier notify.Notifier
	Runner   Runner
	Metrics  *IngestMetrics
	Logger   *slog.Logger

	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time
}

type extractionService struct {
	cfg      config.IngestConfig
	store    storage.Storage
	repo     repository.EnrollmentRepository
	notifier notify.Notifier
	runner   Runner
	metrics  *IngestMetrics
	log      *slog.Logger
	newID    func() string
	now      func() time.Time
}

// NewExtractionService constructs a new ExtractionService.
func NewExtractionService(dep ExtractionDeps) ExtractionService {
	s := &extractionService{
		cfg:      dep.Config,
		store:    dep.Store,
		repo:     dep.Repo,
		notifier: dep.Notifier,
		runner:   dep.Runner,
		metrics:  dep.Metrics,
		log:      dep.Logger,
		newID:    dep.NewID,
		now:      dep.Now,
	}
	if s.cfg.MaxFileSizeBytes <= 0 {
		s.cfg.MaxFileSizeBytes = config.DefaultMaxFileSizeBytes
	}
	if len(s.cfg.AllowedMimeTypes) == 0 {
		s.cfg.AllowedMimeTypes = []string{"text/csv"}
	}
	if s.notifier == nil {
		s.notifier = notify.Noop{}
	}
	if s.runner == nil {
		s.runner = inlineRunner{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *extractionService) Ingest(ctx context.Context, req model.UploadRequest) (res *model.IngestResult, err error) {
	ctx, span := tracer.Start(ctx, "ExtractionService.Ingest", trace.WithAttributes(
		attribute.String("extraction.kind", string(req.Kind)),
		attribute.String("extraction.course_id", req.CourseID),
	))
	defer func() {
		s.finish(ctx, span, req.Kind, res, err)
	}()

	if err := s.checkFile(req.File); err != nil {
		return nil, err
	}
	if err := checkFields(req); err != nil {
		return nil, err
	}

	key, err := s.stage(ctx, req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("extraction.staged_key", key))

	res, err = s.process(ctx, key, req)
	if err != nil {
		s.log.WarnContext(ctx, "extraction rejected, staged file kept", "key", key, "kind", req.Kind, "error", err)
		return nil, err
	}

	s.afterCommit(ctx, key, len(res.Records) > 0)
	return res, nil
}

// checkFile accepts a media type from the allowed list, compared case-insensitively with
// parameters stripped, so "text/csv; charset=utf-8" passes as text/csv.
func (s *extractionService) checkFile(f *model.UploadFile) error {
	if f == nil || f.Reader == nil {
		return errMissingFile()
	}

	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(f.ContentType))
	}
	if !slices.ContainsFunc(s.cfg.AllowedMimeTypes, func(t string) bool { return strings.EqualFold(t, mediaType) }) {
		return errInvalidType(f.ContentType, s.cfg.AllowedMimeTypes)
	}

	if f.Size > s.cfg.MaxFileSizeBytes {
		return errTooLarge(s.cfg.MaxFileSizeBytes)
	}
	return nil
}

func checkFields(req model.UploadRequest) error {
	var missing []string
	if strings.TrimSpace(req.FacultyID) == "" {
		missing = append(missing, "facultyId")
	}
	if strings.TrimSpace(req.CourseID) == "" {
		missing = append(missing, "courseId")
	}
	if len(missing) > 0 {
		return errMissingField(missing)
	}
	return nil
}

// stage copies the upload into storage. At most limit+1 bytes are copied so a declared size
// that understates the content is still caught.
func (s *extractionService) stage(ctx context.Context, req model.UploadRequest) (string, error) {
	key := "extractions/" + s.newID() + ".csv"
	limit := s.cfg.MaxFileSizeBytes

	info, err := s.store.Put(ctx, key, io.LimitReader(req.File.Reader, limit+1), storage.PutObjectOptions{
		Size:        req.File.Size,
		ContentType: req.File.ContentType,
		Metadata: map[string]string{
			"original-filename": req.File.Filename,
			"faculty-id":        req.FacultyID,
			"course-id":         req.CourseID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	if info.Size > limit {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.WarnContext(ctx, "failed to remove oversized upload", "key", key, "error", delErr)
		}
		return "", errTooLarge(limit)
	}
	return key, nil
}

// process dispatches on the upload kind. LINKEDIN is a placeholder: any content that passed
// the file checks is accepted without being read.
func (s *extractionService) process(ctx context.Context, key string, req model.UploadRequest) (*model.IngestResult, error) {
	switch req.Kind {
	case model.UploadKindEnrollment:
	case model.UploadKindLinkedIn:
		return &model.IngestResult{Headers: []string{}, Records: []model.Enrollment{}}, nil
	default:
		return nil, errUnknownKind(string(req.Kind))
	}

	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open staged upload: %w", err)
	}
	defer rc.Close()

	table, err := ParseTable(rc)
	if err != nil {
		return nil, err
	}
	return s.ingestEnrollments(ctx, table, req)
}

func (s *extractionService) ingestEnrollments(ctx context.Context, table *model.ParsedTable, req model.UploadRequest) (*model.IngestResult, error) {
	rows, err := validateEnrollmentTable(table)
	if err != nil {
		return nil, err
	}

	records, err := mapEnrollments(rows, req, s.newID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if len(records) > 0 {
		if err := s.repo.BulkCreate(ctx, records); err != nil {
			return nil, fmt.Errorf("persist enrollments: %w", err)
		}
	}

	return &model.IngestResult{Headers: table.Headers, Records: records}, nil
}

func (s *extractionService) finish(ctx context.Context, span trace.Span, kind model.UploadKind, res *model.IngestResult, err error) {
	defer span.End()

	switch {
	case err == nil:
		span.SetAttributes(attribute.Int("extraction.records", len(res.Records)))
		s.metrics.observeUpload(string(kind), outcomeAccepted, len(res.Records))
		s.log.InfoContext(ctx, "extraction accepted", "kind", kind, "records", len(res.Records))
	case isIngestError(err):
		span.SetStatus(codes.Error, "rejected")
		span.RecordError(err)
		s.metrics.observeUpload(string(kind), outcomeRejected, 0)
	default:
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		s.metrics.observeUpload(string(kind), outcomeFailed, 0)
		s.log.ErrorContext(ctx, "extraction failed", "kind", kind, "error", err)
	}
}

func isIngestError(err error) bool {
	_, ok := AsIngestError(err)
	return ok
}
