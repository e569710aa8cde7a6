package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrCapacityExhausted is returned when a seat reservation would push a
	// course past its maximum capacity.
	ErrCapacityExhausted = errors.New("course capacity exhausted")
	// ErrDuplicateAllocation is returned when an allocation already exists for
	// the (student, course) pair.
	ErrDuplicateAllocation = errors.New("allocation already exists for student and course")
	// ErrLockTimeout is returned when a row lock could not be acquired in time.
	ErrLockTimeout = errors.New("timed out waiting for row lock")
)

const (
	pqUniqueViolation   = "23505"
	pqLockNotAvailable  = "55P03"
	pqCheckViolation    = "23514"
	allocationPairIndex = "allocations_student_course_key"
)

func pqCode(err error) (pq.ErrorCode, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, pqErr.Constraint
	}
	return "", ""
}

func isUniqueViolation(err error, constraint string) bool {
	code, name := pqCode(err)
	return code == pqUniqueViolation && (constraint == "" || name == constraint)
}

func isLockTimeout(err error) bool {
	code, _ := pqCode(err)
	return code == pqLockNotAvailable
}

func isCheckViolation(err error) bool {
	code, _ := pqCode(err)
	return code == pqCheckViolation
}
