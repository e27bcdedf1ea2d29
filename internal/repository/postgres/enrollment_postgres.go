package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"alumniapi/internal/model"
	"alumniapi/internal/repository"
)

// insertBatchSize keeps a single INSERT well under the 65535 bind parameter limit.
const insertBatchSize = 1000

const enrollmentColumns = "id, course_id, faculty_id, student_id, full_name, conclusion_year, created_at"

// EnrollmentPostgres is a PostgreSQL implementation of repository.EnrollmentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type EnrollmentPostgres struct {
	db *sql.DB
}

// NewEnrollmentPostgres creates a new EnrollmentPostgres repository.
func NewEnrollmentPostgres(db *sql.DB) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db}
}

var _ repository.EnrollmentRepository = (*EnrollmentPostgres)(nil)

// BulkCreate writes all records inside one transaction using multi-row INSERTs.
func (r *EnrollmentPostgres) BulkCreate(ctx context.Context, records []model.Enrollment) (err error) {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))
		q, args := buildInsert(records[start:end])
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert enrollments [%d:%d]: %w", start, end, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func buildInsert(batch []model.Enrollment) (string, []any) {
	const cols = 7
	var b strings.Builder
	b.WriteString("INSERT INTO enrollments (" + enrollmentColumns + ") VALUES ")

	args := make([]any, 0, len(batch)*cols)
	for i, rec := range batch {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * cols
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7)
		args = append(args,
			rec.ID,
			rec.CourseID,
			rec.FacultyID,
			rec.StudentID,
			rec.FullName,
			rec.ConclusionYear,
			rec.CreatedAt,
		)
	}
	return b.String(), args
}

// FindByID fetches a single enrollment by its ID.
func (r *EnrollmentPostgres) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	const q = `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE id = $1
	`
	var e model.Enrollment
	if err := scanEnrollment(r.db.QueryRowContext(ctx, q, id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns enrollments matching the filter using LIMIT/OFFSET pagination and a total count.
func (r *EnrollmentPostgres) List(ctx context.Context, filter repository.EnrollmentFilter, pq repository.PageQuery) (*repository.PageResult[model.Enrollment], error) {
	where, args := filterClause(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM enrollments"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := fmt.Sprintf(`
		SELECT %s
		FROM enrollments%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, enrollmentColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Enrollment, 0)
	for rows.Next() {
		var e model.Enrollment
		if err := scanEnrollment(rows, &e); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Enrollment]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes an enrollment by ID. It does not return an error if the row does not exist.
func (r *EnrollmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM enrollments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func filterClause(f repository.EnrollmentFilter) (string, []any) {
	var conds []string
	var args []any
	if f.CourseID != "" {
		args = append(args, f.CourseID)
		conds = append(conds, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if f.FacultyID != "" {
		args = append(args, f.FacultyID)
		conds = append(conds, fmt.Sprintf("faculty_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(s scanner, e *model.Enrollment) error {
	return s.Scan(
		&e.ID,
		&e.CourseID,
		&e.FacultyID,
		&e.StudentID,
		&e.FullName,
		&e.ConclusionYear,
		&e.CreatedAt,
	)
}
