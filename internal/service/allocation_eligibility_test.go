package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/course-allocation-api/internal/models"
	appErrors "github.com/noah-isme/course-allocation-api/pkg/errors"
)

func TestEvaluateEligibility(t *testing.T) {
	lecturer := "lec-1"
	base := models.Course{IsActive: true, LecturerID: &lecturer, MinimumGPA: 3.0, MaxCapacity: 2}

	cases := []struct {
		name   string
		mutate func(in *EligibilityInput)
		want   *appErrors.Error
	}{
		{name: "allowed", mutate: func(in *EligibilityInput) {}},
		{name: "gpa equal to minimum passes", mutate: func(in *EligibilityInput) { in.StudentGPA = 3.0 }},
		{name: "already requested wins over everything", mutate: func(in *EligibilityInput) {
			in.AlreadyRequested = true
			in.Course.IsActive = false
			in.StudentGPA = 1.0
		}, want: appErrors.ErrDuplicateRequest},
		{name: "inactive before lecturer", mutate: func(in *EligibilityInput) {
			in.Course.IsActive = false
			in.Course.LecturerID = nil
		}, want: appErrors.ErrInactiveCourse},
		{name: "no lecturer before gpa", mutate: func(in *EligibilityInput) {
			in.Course.LecturerID = nil
			in.StudentGPA = 1.0
		}, want: appErrors.ErrNoLecturerAssigned},
		{name: "gpa before capacity", mutate: func(in *EligibilityInput) {
			in.StudentGPA = 2.9
			in.ApprovedCount = 2
		}, want: appErrors.ErrGPATooLow},
		{name: "capacity counts approved only", mutate: func(in *EligibilityInput) { in.ApprovedCount = 2 }, want: appErrors.ErrCapacityExceeded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := EligibilityInput{StudentGPA: 3.5, Course: base, ApprovedCount: 1}
			tc.mutate(&in)
			err := EvaluateEligibility(in)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEvaluateEligibilityGPAMessageCarriesBothValues(t *testing.T) {
	lecturer := "lec-1"
	err := EvaluateEligibility(EligibilityInput{
		StudentGPA: 3.2,
		Course:     models.Course{IsActive: true, LecturerID: &lecturer, MinimumGPA: 3.5, MaxCapacity: 10},
	})
	assert.EqualError(t, err, "student GPA (3.20) does not meet the course minimum (3.50)")
}
