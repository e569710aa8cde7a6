package models

// Student represents a learner; GPA is read-only for the allocation workflow.
type Student struct {
	ID            string  `db:"id" json:"id"`
	UserID        string  `db:"user_id" json:"user_id"`
	StudentNumber string  `db:"student_number" json:"student_number"`
	FullName      string  `db:"full_name" json:"full_name"`
	DepartmentID  string  `db:"department_id" json:"department_id"`
	GPA           float64 `db:"gpa" json:"gpa"`
}
