package models

// Lecturer represents teaching staff that decide on enrollment requests.
type Lecturer struct {
	ID           string `db:"id" json:"id"`
	UserID       string `db:"user_id" json:"user_id"`
	FullName     string `db:"full_name" json:"full_name"`
	DepartmentID string `db:"department_id" json:"department_id"`
}
