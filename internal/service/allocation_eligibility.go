package service

import (
	"fmt"

	"github.com/noah-isme/course-allocation-api/internal/models"
	appErrors "github.com/noah-isme/course-allocation-api/pkg/errors"
)

// EligibilityInput is everything EvaluateEligibility needs to decide whether a
// student may request a seat in a course.
type EligibilityInput struct {
	StudentGPA       float64
	Course           models.Course
	AlreadyRequested bool
	ApprovedCount    int
}

// EvaluateEligibility runs the enrollment checks in a fixed order and returns
// the first failure, or nil when the request is allowed. A GPA equal to the
// minimum passes.
func EvaluateEligibility(in EligibilityInput) error {
	switch {
	case in.AlreadyRequested:
		return appErrors.ErrDuplicateRequest
	case !in.Course.IsActive:
		return appErrors.ErrInactiveCourse
	case !in.Course.HasLecturer():
		return appErrors.ErrNoLecturerAssigned
	case in.StudentGPA < in.Course.MinimumGPA:
		return appErrors.Clone(appErrors.ErrGPATooLow, fmt.Sprintf(
			"student GPA (%.2f) does not meet the course minimum (%.2f)", in.StudentGPA, in.Course.MinimumGPA))
	case in.ApprovedCount >= in.Course.MaxCapacity:
		return appErrors.ErrCapacityExceeded
	}
	return nil
}
