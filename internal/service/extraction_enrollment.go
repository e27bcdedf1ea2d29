package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"alumniapi/internal/model"
)

const (
	headerStudentID = "student_id"
	headerFullName  = "full_name"
	headerStatus    = "status"
)

var enrollmentHeaders = []string{headerStudentID, headerFullName, headerStatus}

type enrollmentRow struct {
	studentID string
	fullName  string
	status    string
}

// validateEnrollmentTable checks the required headers and then that every row has all
// required fields, before any row is mapped.
func validateEnrollmentTable(t *model.ParsedTable) ([]enrollmentRow, error) {
	if missing := lo.Without(enrollmentHeaders, t.Headers...); len(missing) > 0 {
		return nil, errMissingColumns(missing)
	}

	idx := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		idx[h] = i
	}

	rows := make([]enrollmentRow, 0, len(t.Rows))
	for i, rec := range t.Rows {
		row := enrollmentRow{
			studentID: rec[idx[headerStudentID]],
			fullName:  rec[idx[headerFullName]],
			status:    rec[idx[headerStatus]],
		}
		if row.studentID == "" || row.fullName == "" || row.status == "" {
			return nil, errIncompleteRow(i+1, enrollmentHeaders)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapEnrollments turns validated rows into records. The first malformed status rejects the batch.
func mapEnrollments(rows []enrollmentRow, req model.UploadRequest, newID func() string, now time.Time) ([]model.Enrollment, error) {
	records := make([]model.Enrollment, 0, len(rows))
	for i, row := range rows {
		year, ok := parseConclusionYear(row.status)
		if !ok {
			return nil, errMalformedStatus(i+1, row.status)
		}
		records = append(records, model.Enrollment{
			ID:             newID(),
			CourseID:       req.CourseID,
			FacultyID:      req.FacultyID,
			StudentID:      row.studentID,
			FullName:       row.fullName,
			ConclusionYear: year,
			CreatedAt:      now,
		})
	}
	return records, nil
}

// parseConclusionYear extracts the second year of a "STATUS(YEAR/YEAR)" string,
// e.g. "GRADUATED (2019/2020)" -> 2020. Spaces anywhere are ignored.
func parseConclusionYear(status string) (int, bool) {
	compact := strings.ReplaceAll(status, " ", "")

	_, period, ok := strings.Cut(compact, "(")
	if !ok {
		return 0, false
	}
	years := strings.Split(period, "/")
	if len(years) < 2 {
		return 0, false
	}

	end := strings.TrimSuffix(years[1], ")")
	if len(end) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(end)
	if err != nil || year < 1000 {
		return 0, false
	}
	return year, true
}
