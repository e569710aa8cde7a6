package service

import (
	"strings"
	"time"

	"github.com/noah-isme/course-allocation-api/internal/models"
	appErrors "github.com/noah-isme/course-allocation-api/pkg/errors"
)

// NewPendingAllocation builds a fresh PENDING allocation stamped with now.
func NewPendingAllocation(studentID, courseID, comment string, now time.Time) models.Allocation {
	return models.Allocation{
		StudentID:      studentID,
		CourseID:       courseID,
		Status:         models.AllocationStatusPending,
		StudentComment: optionalString(comment),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ApplyDecision returns a copy of alloc moved to decision. Only PENDING
// allocations accept a decision and only APPROVED or DENIED are outcomes.
func ApplyDecision(alloc models.Allocation, decision models.AllocationStatus, comment string, now time.Time) (models.Allocation, error) {
	if alloc.Status != models.AllocationStatusPending {
		return alloc, appErrors.ErrAlreadyProcessed
	}
	if decision != models.AllocationStatusApproved && decision != models.AllocationStatusDenied {
		return alloc, appErrors.ErrInvalidDecision
	}

	next := alloc
	next.Status = decision
	next.LecturerComment = optionalString(comment)
	next.UpdatedAt = now
	stamp := now
	if decision == models.AllocationStatusApproved {
		next.ApprovedAt = &stamp
	} else {
		next.DeniedAt = &stamp
	}
	return next, nil
}

// ApplyDrop returns a copy of alloc moved to DROPPED.
func ApplyDrop(alloc models.Allocation, now time.Time) (models.Allocation, error) {
	if !alloc.Status.CanTransitionTo(models.AllocationStatusDropped) {
		return alloc, appErrors.ErrNotApproved
	}
	next := alloc
	next.Status = models.AllocationStatusDropped
	next.UpdatedAt = now
	stamp := now
	next.DroppedAt = &stamp
	return next, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
