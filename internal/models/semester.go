package models

import "time"

// Semester groups course offerings; only one is active at a time.
type Semester struct {
	ID       string     `db:"id" json:"id"`
	Name     string     `db:"name" json:"name"`
	IsActive bool       `db:"is_active" json:"is_active"`
	StartsOn *time.Time `db:"starts_on" json:"starts_on,omitempty"`
	EndsOn   *time.Time `db:"ends_on" json:"ends_on,omitempty"`
}
