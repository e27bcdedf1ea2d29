package model

import "time"

// Enrollment is one student's record against a course, produced by an enrollment extraction.
// Records are immutable once written; they only leave the system through administrative deletion.
type Enrollment struct {
	ID             string    `json:"id"`
	CourseID       string    `json:"courseId"`
	FacultyID      string    `json:"facultyId"`
	StudentID      string    `json:"studentId"`
	FullName       string    `json:"fullName"`
	ConclusionYear int       `json:"conclusionYear"`
	CreatedAt      time.Time `json:"createdAt"`
}
