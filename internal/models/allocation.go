package models

import "time"

// AllocationStatus represents the lifecycle of a student's course allocation.
type AllocationStatus string

// Possible allocation statuses.
const (
	AllocationStatusPending  AllocationStatus = "PENDING"
	AllocationStatusApproved AllocationStatus = "APPROVED"
	AllocationStatusDenied   AllocationStatus = "DENIED"
	AllocationStatusDropped  AllocationStatus = "DROPPED"
)

var allocationTransitions = map[AllocationStatus][]AllocationStatus{
	AllocationStatusPending:  {AllocationStatusApproved, AllocationStatusDenied},
	AllocationStatusApproved: {AllocationStatusDropped},
}

// Valid reports whether s is a known status.
func (s AllocationStatus) Valid() bool {
	switch s {
	case AllocationStatusPending, AllocationStatusApproved, AllocationStatusDenied, AllocationStatusDropped:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s AllocationStatus) Terminal() bool {
	return s == AllocationStatusDenied || s == AllocationStatusDropped
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s AllocationStatus) CanTransitionTo(next AllocationStatus) bool {
	for _, allowed := range allocationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Allocation captures one student's enrollment request for one course.
// At most one allocation exists per (student, course) pair; records are never deleted.
type Allocation struct {
	ID              string           `db:"id" json:"id"`
	StudentID       string           `db:"student_id" json:"student_id"`
	CourseID        string           `db:"course_id" json:"course_id"`
	Status          AllocationStatus `db:"status" json:"status"`
	StudentComment  *string          `db:"student_comment" json:"student_comment,omitempty"`
	LecturerComment *string          `db:"lecturer_comment" json:"lecturer_comment,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
	ApprovedAt      *time.Time       `db:"approved_at" json:"approved_at,omitempty"`
	DeniedAt        *time.Time       `db:"denied_at" json:"denied_at,omitempty"`
	DroppedAt       *time.Time       `db:"dropped_at" json:"dropped_at,omitempty"`
}

// AllocationDetail enriches Allocation with student and course display fields.
type AllocationDetail struct {
	Allocation
	StudentNumber string  `db:"student_number" json:"student_number"`
	StudentName   string  `db:"student_name" json:"student_name"`
	CourseCode    string  `db:"course_code" json:"course_code"`
	CourseName    string  `db:"course_name" json:"course_name"`
	LecturerID    *string `db:"lecturer_id" json:"lecturer_id,omitempty"`
}

// AllocationFilter narrows allocation listings. Exactly one of the owner
// fields is normally set by the caller.
type AllocationFilter struct {
	StudentID  string
	CourseID   string
	LecturerID string
	Status     AllocationStatus
}

// CourseCapacity summarises seat usage for a course.
type CourseCapacity struct {
	CourseID          string `json:"course_id"`
	MaxCapacity       int    `json:"max_capacity"`
	CurrentEnrollment int    `json:"current_enrollment"`
	ApprovedCount     int    `json:"approved_count"`
	PendingCount      int    `json:"pending_count"`
	SeatsAvailable    int    `json:"seats_available"`
}
