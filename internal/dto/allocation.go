package dto

import "github.com/noah-isme/course-allocation-api/internal/models"

// EnrollRequest is submitted by a student asking for a seat in a course.
type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Comment  string `json:"comment" validate:"max=500"`
}

// DecisionRequest captures a lecturer's decision on a pending request.
// Status is checked by the workflow, not by struct validation, so an unknown
// value surfaces as an invalid decision instead of a generic validation error.
type DecisionRequest struct {
	Status  models.AllocationStatus `json:"status" validate:"required"`
	Comment string                  `json:"comment" validate:"max=500"`
}

// AllocationQuery mirrors supported listing filters.
type AllocationQuery struct {
	Status models.AllocationStatus
}
