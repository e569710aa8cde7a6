package models

// Course is the workflow's view of a course offering.
// CurrentEnrollment is only ever changed by seat reservation and release.
type Course struct {
	ID                string  `db:"id" json:"id"`
	CourseCode        string  `db:"course_code" json:"course_code"`
	CourseName        string  `db:"course_name" json:"course_name"`
	Credits           int     `db:"credits" json:"credits"`
	DepartmentID      string  `db:"department_id" json:"department_id"`
	SemesterID        string  `db:"semester_id" json:"semester_id"`
	LecturerID        *string `db:"lecturer_id" json:"lecturer_id,omitempty"`
	MinimumGPA        float64 `db:"minimum_gpa" json:"minimum_gpa"`
	MaxCapacity       int     `db:"max_capacity" json:"max_capacity"`
	CurrentEnrollment int     `db:"current_enrollment" json:"current_enrollment"`
	IsActive          bool    `db:"is_active" json:"is_active"`
}

// HasLecturer reports whether a lecturer is assigned.
func (c Course) HasLecturer() bool {
	return c.LecturerID != nil && *c.LecturerID != ""
}
