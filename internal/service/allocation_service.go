package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/course-allocation-api/internal/dto"
	"github.com/noah-isme/course-allocation-api/internal/models"
	"github.com/noah-isme/course-allocation-api/internal/repository"
	appErrors "github.com/noah-isme/course-allocation-api/pkg/errors"
	"github.com/noah-isme/course-allocation-api/pkg/keylock"
	"github.com/noah-isme/course-allocation-api/pkg/logger"
)

const (
	operationEnroll = "enroll"
	operationDecide = "decide"
	operationDrop   = "drop"
)

type allocationStore interface {
	FindDetailByID(ctx context.Context, id string) (*models.AllocationDetail, error)
	List(ctx context.Context, filter models.AllocationFilter) ([]models.AllocationDetail, error)
	CountByCourseAndStatusTx(ctx context.Context, tx *sqlx.Tx, courseID string, status models.AllocationStatus) (int, error)
	ExistsByStudentAndCourse(ctx context.Context, tx *sqlx.Tx, studentID, courseID string) (bool, error)
	FindByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Allocation, error)
	FindByStudentAndCourseForUpdate(ctx context.Context, tx *sqlx.Tx, studentID, courseID string) (*models.Allocation, error)
	Create(ctx context.Context, tx *sqlx.Tx, allocation *models.Allocation) error
	UpdateTransition(ctx context.Context, tx *sqlx.Tx, allocation *models.Allocation, from models.AllocationStatus) error
}

type allocationCourseStore interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (*models.Course, error)
	LockByID(ctx context.Context, tx *sqlx.Tx, id string) (*models.Course, error)
	ReserveSeat(ctx context.Context, tx *sqlx.Tx, courseID string) error
	ReleaseSeat(ctx context.Context, tx *sqlx.Tx, courseID string) error
	ListEligible(ctx context.Context, semesterID string, gpa float64) ([]models.Course, error)
}

type allocationStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type allocationLecturerReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.Lecturer, error)
}

type allocationSemesterReader interface {
	FindActive(ctx context.Context) (*models.Semester, error)
}

type allocationAuditWriter interface {
	Create(ctx context.Context, tx *sqlx.Tx, log *models.AuditLog) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type invalidationQueue interface {
	Enqueue(inv CacheInvalidation) error
}

// AllocationServiceOption configures the service.
type AllocationServiceOption func(*AllocationService)

// WithAllocationCache enables read caching of allocation listings.
func WithAllocationCache(cache *CacheService) AllocationServiceOption {
	return func(s *AllocationService) {
		s.cache = cache
	}
}

// WithInvalidationQueue hands post-commit cache invalidation to an async
// worker. Invalidation runs inline when the queue refuses the job.
func WithInvalidationQueue(queue invalidationQueue) AllocationServiceOption {
	return func(s *AllocationService) {
		s.invalidations = queue
	}
}

// WithAllocationMetrics records workflow counters.
func WithAllocationMetrics(metrics *MetricsService) AllocationServiceOption {
	return func(s *AllocationService) {
		s.metrics = metrics
	}
}

// WithAllocationClock overrides the time source.
func WithAllocationClock(now func() time.Time) AllocationServiceOption {
	return func(s *AllocationService) {
		if now != nil {
			s.now = now
		}
	}
}

// AllocationService runs the enrollment workflow: requests, lecturer
// decisions and drops, each as one atomic unit per course.
type AllocationService struct {
	allocations allocationStore
	courses     allocationCourseStore
	students    allocationStudentReader
	lecturers   allocationLecturerReader
	semesters   allocationSemesterReader
	audit       allocationAuditWriter
	tx          txProvider
	locks       *keylock.Locker
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time

	invalidations invalidationQueue
}

// NewAllocationService wires workflow dependencies.
func NewAllocationService(
	allocations allocationStore,
	courses allocationCourseStore,
	students allocationStudentReader,
	lecturers allocationLecturerReader,
	semesters allocationSemesterReader,
	audit allocationAuditWriter,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	opts ...AllocationServiceOption,
) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AllocationService{
		allocations: allocations,
		courses:     courses,
		students:    students,
		lecturers:   lecturers,
		semesters:   semesters,
		audit:       audit,
		tx:          tx,
		locks:       keylock.New(),
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// StudentForUser resolves the student profile of an authenticated account.
func (s *AllocationService) StudentForUser(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Internal(err, "failed to load student profile")
	}
	return student, nil
}

// LecturerForUser resolves the lecturer profile of an authenticated account.
func (s *AllocationService) LecturerForUser(ctx context.Context, userID string) (*models.Lecturer, error) {
	lecturer, err := s.lecturers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer profile not found")
		}
		return nil, appErrors.Internal(err, "failed to load lecturer profile")
	}
	return lecturer, nil
}

// Enroll creates a PENDING allocation for studentID after re-checking
// eligibility under the course lock.
func (s *AllocationService) Enroll(ctx context.Context, studentID string, req dto.EnrollRequest) (*models.AllocationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}

	var (
		created models.Allocation
		course  *models.Course
	)
	err = s.withinUnit(ctx, operationEnroll, req.CourseID, func(tx *sqlx.Tx) error {
		var unitErr error
		course, unitErr = s.lockCourse(ctx, tx, req.CourseID)
		if unitErr != nil {
			return unitErr
		}

		exists, unitErr := s.allocations.ExistsByStudentAndCourse(ctx, tx, student.ID, course.ID)
		if unitErr != nil {
			return appErrors.Internal(unitErr, "failed to check existing requests")
		}
		approved, unitErr := s.allocations.CountByCourseAndStatusTx(ctx, tx, course.ID, models.AllocationStatusApproved)
		if unitErr != nil {
			return appErrors.Internal(unitErr, "failed to count approved allocations")
		}
		if unitErr = EvaluateEligibility(EligibilityInput{
			StudentGPA:       student.GPA,
			Course:           *course,
			AlreadyRequested: exists,
			ApprovedCount:    approved,
		}); unitErr != nil {
			return unitErr
		}

		created = NewPendingAllocation(student.ID, course.ID, req.Comment, s.now())
		if unitErr = s.allocations.Create(ctx, tx, &created); unitErr != nil {
			if errors.Is(unitErr, repository.ErrDuplicateAllocation) {
				return appErrors.ErrDuplicateRequest
			}
			return appErrors.Internal(unitErr, "failed to create allocation")
		}
		return s.writeAudit(ctx, tx, student.UserID, models.AuditActionAllocationCreate, &created, nil)
	})
	if err != nil {
		return nil, s.reject(ctx, operationEnroll, err, zap.String("student_id", studentID), zap.String("course_id", req.CourseID))
	}

	s.afterCommit(ctx, operationEnroll, created, course)
	return s.describe(ctx, created), nil
}

// Decide applies a lecturer decision to a PENDING allocation. Approval reserves
// a seat; when none is left the allocation stays PENDING.
func (s *AllocationService) Decide(ctx context.Context, allocationID string, req dto.DecisionRequest, actorID string) (*models.AllocationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	current, err := s.allocations.FindDetailByID(ctx, allocationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, allocationNotFound(allocationID)
		}
		return nil, appErrors.Internal(err, "failed to load allocation")
	}

	var (
		updated models.Allocation
		course  *models.Course
	)
	err = s.withinUnit(ctx, operationDecide, current.CourseID, func(tx *sqlx.Tx) error {
		var unitErr error
		course, unitErr = s.lockCourse(ctx, tx, current.CourseID)
		if unitErr != nil {
			return unitErr
		}

		locked, unitErr := s.allocations.FindByIDForUpdate(ctx, tx, allocationID)
		if unitErr != nil {
			if errors.Is(unitErr, sql.ErrNoRows) {
				return allocationNotFound(allocationID)
			}
			return translateLockError(unitErr, "failed to lock allocation")
		}

		updated, unitErr = ApplyDecision(*locked, req.Status, req.Comment, s.now())
		if unitErr != nil {
			return unitErr
		}

		if updated.Status == models.AllocationStatusApproved {
			if unitErr = s.courses.ReserveSeat(ctx, tx, course.ID); unitErr != nil {
				if errors.Is(unitErr, repository.ErrCapacityExhausted) {
					return appErrors.ErrCapacityExceeded
				}
				return appErrors.Internal(unitErr, "failed to reserve seat")
			}
		}

		if unitErr = s.allocations.UpdateTransition(ctx, tx, &updated, models.AllocationStatusPending); unitErr != nil {
			if errors.Is(unitErr, sql.ErrNoRows) {
				return appErrors.ErrAlreadyProcessed
			}
			return appErrors.Internal(unitErr, "failed to update allocation")
		}

		action := models.AuditActionAllocationDeny
		if updated.Status == models.AllocationStatusApproved {
			action = models.AuditActionAllocationApprove
		}
		return s.writeAudit(ctx, tx, actorID, action, &updated, locked)
	})
	if err != nil {
		return nil, s.reject(ctx, operationDecide, err, zap.String("allocation_id", allocationID), zap.String("course_id", current.CourseID))
	}

	s.afterCommit(ctx, operationDecide, updated, course)
	return s.describe(ctx, updated), nil
}

// Drop withdraws a student from an APPROVED course and releases the seat.
func (s *AllocationService) Drop(ctx context.Context, studentID, courseID, actorID string) (*models.AllocationDetail, error) {
	var (
		updated models.Allocation
		course  *models.Course
	)
	err := s.withinUnit(ctx, operationDrop, courseID, func(tx *sqlx.Tx) error {
		var unitErr error
		course, unitErr = s.lockCourse(ctx, tx, courseID)
		if unitErr != nil {
			return unitErr
		}

		locked, unitErr := s.allocations.FindByStudentAndCourseForUpdate(ctx, tx, studentID, courseID)
		if unitErr != nil {
			if errors.Is(unitErr, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no allocation found for course %s", courseID))
			}
			return translateLockError(unitErr, "failed to lock allocation")
		}

		updated, unitErr = ApplyDrop(*locked, s.now())
		if unitErr != nil {
			return unitErr
		}
		if unitErr = s.allocations.UpdateTransition(ctx, tx, &updated, models.AllocationStatusApproved); unitErr != nil {
			if errors.Is(unitErr, sql.ErrNoRows) {
				return appErrors.ErrNotApproved
			}
			return appErrors.Internal(unitErr, "failed to update allocation")
		}
		if unitErr = s.courses.ReleaseSeat(ctx, tx, course.ID); unitErr != nil {
			return appErrors.Internal(unitErr, "failed to release seat")
		}
		return s.writeAudit(ctx, tx, actorID, models.AuditActionAllocationDrop, &updated, locked)
	})
	if err != nil {
		return nil, s.reject(ctx, operationDrop, err, zap.String("student_id", studentID), zap.String("course_id", courseID))
	}

	s.afterCommit(ctx, operationDrop, updated, course)
	return s.describe(ctx, updated), nil
}

// Get returns one allocation with display fields.
func (s *AllocationService) Get(ctx context.Context, id string) (*models.AllocationDetail, error) {
	detail, err := s.allocations.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, allocationNotFound(id)
		}
		return nil, appErrors.Internal(err, "failed to load allocation")
	}
	return detail, nil
}

// ListByStudent returns a student's allocations, optionally filtered by status.
func (s *AllocationService) ListByStudent(ctx context.Context, studentID string, status models.AllocationStatus) ([]models.AllocationDetail, error) {
	return s.list(ctx, studentListKey(studentID, status), models.AllocationFilter{StudentID: studentID, Status: status})
}

// ListEnrolled returns the student's APPROVED allocations.
func (s *AllocationService) ListEnrolled(ctx context.Context, studentID string) ([]models.AllocationDetail, error) {
	return s.ListByStudent(ctx, studentID, models.AllocationStatusApproved)
}

// ListByCourse returns a course's allocations, optionally filtered by status.
func (s *AllocationService) ListByCourse(ctx context.Context, courseID string, status models.AllocationStatus) ([]models.AllocationDetail, error) {
	if _, err := s.findCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.list(ctx, courseListKey(courseID, status), models.AllocationFilter{CourseID: courseID, Status: status})
}

// ListByLecturer returns allocations on every course taught by lecturerID.
func (s *AllocationService) ListByLecturer(ctx context.Context, lecturerID string, status models.AllocationStatus) ([]models.AllocationDetail, error) {
	return s.list(ctx, lecturerListKey(lecturerID, status), models.AllocationFilter{LecturerID: lecturerID, Status: status})
}

// ListPendingForLecturer returns requests awaiting the lecturer's decision.
func (s *AllocationService) ListPendingForLecturer(ctx context.Context, lecturerID string) ([]models.AllocationDetail, error) {
	return s.ListByLecturer(ctx, lecturerID, models.AllocationStatusPending)
}

// CourseCapacity summarises seat usage for a course.
func (s *AllocationService) CourseCapacity(ctx context.Context, courseID string) (*models.CourseCapacity, error) {
	return Remember(ctx, s.cache, capacityKey(courseID), func(ctx context.Context) (*models.CourseCapacity, error) {
		return s.loadCapacity(ctx, courseID)
	})
}

// loadCapacity reads the course row and both counts from one snapshot, so the
// seat counter and the approved count always describe the same commit.
func (s *AllocationService) loadCapacity(ctx context.Context, courseID string) (*models.CourseCapacity, error) {
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	course, err := s.courses.FindByIDTx(ctx, tx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, courseNotFound(courseID)
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}
	approved, err := s.allocations.CountByCourseAndStatusTx(ctx, tx, courseID, models.AllocationStatusApproved)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count approved allocations")
	}
	pending, err := s.allocations.CountByCourseAndStatusTx(ctx, tx, courseID, models.AllocationStatusPending)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count pending allocations")
	}

	seats := course.MaxCapacity - course.CurrentEnrollment
	if seats < 0 {
		seats = 0
	}
	return &models.CourseCapacity{
		CourseID:          course.ID,
		MaxCapacity:       course.MaxCapacity,
		CurrentEnrollment: course.CurrentEnrollment,
		ApprovedCount:     approved,
		PendingCount:      pending,
		SeatsAvailable:    seats,
	}, nil
}

// EligibleCourses lists courses of the active semester the student could
// request right now.
func (s *AllocationService) EligibleCourses(ctx context.Context, studentID string) ([]models.Course, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	semester, err := s.semesters.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active semester")
		}
		return nil, appErrors.Internal(err, "failed to load active semester")
	}

	candidates, err := s.courses.ListEligible(ctx, semester.ID, student.GPA)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	existing, err := s.allocations.List(ctx, models.AllocationFilter{StudentID: student.ID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list allocations")
	}
	requested := make(map[string]struct{}, len(existing))
	for _, alloc := range existing {
		requested[alloc.CourseID] = struct{}{}
	}

	eligible := make([]models.Course, 0, len(candidates))
	for _, course := range candidates {
		_, already := requested[course.ID]
		if EvaluateEligibility(EligibilityInput{
			StudentGPA:       student.GPA,
			Course:           course,
			AlreadyRequested: already,
			ApprovedCount:    course.CurrentEnrollment,
		}) == nil {
			eligible = append(eligible, course)
		}
	}
	return eligible, nil
}

func (s *AllocationService) list(ctx context.Context, key string, filter models.AllocationFilter) ([]models.AllocationDetail, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	return Remember(ctx, s.cache, key, func(ctx context.Context) ([]models.AllocationDetail, error) {
		start := time.Now()
		items, err := s.allocations.List(ctx, filter)
		s.metrics.ObserveDBQuery("allocations.list", time.Since(start))
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list allocations")
		}
		return items, nil
	})
}

func (s *AllocationService) findCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, courseNotFound(courseID)
		}
		return nil, appErrors.Internal(err, "failed to load course")
	}
	return course, nil
}

// withinUnit serialises fn with every other unit on the same course, in
// process through the key lock and across processes through the course row
// lock taken by fn. Waiting for the key lock ends with ctx. Any error rolls
// the transaction back.
func (s *AllocationService) withinUnit(ctx context.Context, operation, courseID string, fn func(tx *sqlx.Tx) error) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	start := time.Now()
	unlock, err := s.locks.Lock(ctx, courseID)
	if err != nil {
		s.metrics.ObserveUnit(operation, time.Since(start))
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "course is busy, retry the request")
	}
	defer func() {
		unlock()
		s.metrics.ObserveUnit(operation, time.Since(start))
	}()

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Internal(err, "failed to commit transaction")
	}
	return nil
}

func (s *AllocationService) lockCourse(ctx context.Context, tx *sqlx.Tx, courseID string) (*models.Course, error) {
	course, err := s.courses.LockByID(ctx, tx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, courseNotFound(courseID)
		}
		return nil, translateLockError(err, "failed to lock course")
	}
	return course, nil
}

func (s *AllocationService) writeAudit(ctx context.Context, tx *sqlx.Tx, actorID, action string, next, previous *models.Allocation) error {
	if s.audit == nil {
		return nil
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   models.AuditResourceAllocation,
		ResourceID: &next.ID,
		CreatedAt:  s.now(),
	}
	if actorID != "" {
		actor := actorID
		entry.UserID = &actor
	}
	var err error
	if entry.NewValues, err = json.Marshal(next); err != nil {
		return appErrors.Internal(err, "failed to encode audit payload")
	}
	if previous != nil {
		if entry.OldValues, err = json.Marshal(previous); err != nil {
			return appErrors.Internal(err, "failed to encode audit payload")
		}
	}
	if err := s.audit.Create(ctx, tx, entry); err != nil {
		return appErrors.Internal(err, "failed to write audit log")
	}
	return nil
}

func (s *AllocationService) afterCommit(ctx context.Context, operation string, alloc models.Allocation, course *models.Course) {
	log := logger.FromContext(ctx, s.logger)
	log.Info("allocation transition",
		zap.String("operation", operation),
		zap.String("allocation_id", alloc.ID),
		zap.String("course_id", alloc.CourseID),
		zap.String("student_id", alloc.StudentID),
		zap.String("status", string(alloc.Status)),
	)
	s.metrics.RecordTransition(string(alloc.Status))

	if !s.cache.Enabled() {
		return
	}
	inv := CacheInvalidation{
		Keys:     []string{capacityKey(alloc.CourseID)},
		Patterns: []string{studentListPattern(alloc.StudentID), courseListPattern(alloc.CourseID)},
	}
	if course != nil && course.HasLecturer() {
		inv.Patterns = append(inv.Patterns, lecturerListPattern(*course.LecturerID))
	}
	if s.invalidations != nil {
		err := s.invalidations.Enqueue(inv)
		if err == nil {
			return
		}
		log.Warn("cache invalidation not queued, running inline", zap.Error(err))
	}
	_ = s.cache.Apply(ctx, inv)
}

// reject records business rule refusals and passes err through unchanged.
func (s *AllocationService) reject(ctx context.Context, operation string, err error, fields ...zap.Field) error {
	appErr := appErrors.FromError(err)
	if appErr.Status >= 500 {
		logger.FromContext(ctx, s.logger).Error("allocation unit failed", append(fields, zap.String("operation", operation), zap.Error(err))...)
		return err
	}
	s.metrics.RecordRejection(operation, appErr.Code)
	if errors.Is(err, appErrors.ErrCapacityExceeded) {
		logger.FromContext(ctx, s.logger).Warn("capacity rejected", append(fields, zap.String("operation", operation))...)
	}
	return err
}

// describe resolves display fields for a committed allocation, falling back to
// the bare record if the read fails.
func (s *AllocationService) describe(ctx context.Context, alloc models.Allocation) *models.AllocationDetail {
	detail, err := s.allocations.FindDetailByID(ctx, alloc.ID)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to load allocation detail", zap.String("allocation_id", alloc.ID), zap.Error(err))
		return &models.AllocationDetail{Allocation: alloc}
	}
	return detail
}

func translateLockError(err error, message string) error {
	if errors.Is(err, repository.ErrLockTimeout) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "course is busy, retry the request")
	}
	return appErrors.Internal(err, message)
}

func allocationNotFound(id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("allocation %s not found", id))
}

func courseNotFound(id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s not found", id))
}

func studentListKey(id string, status models.AllocationStatus) string {
	return fmt.Sprintf("allocations:student:%s:%s", id, statusKey(status))
}

func courseListKey(id string, status models.AllocationStatus) string {
	return fmt.Sprintf("allocations:course:%s:%s", id, statusKey(status))
}

func lecturerListKey(id string, status models.AllocationStatus) string {
	return fmt.Sprintf("allocations:lecturer:%s:%s", id, statusKey(status))
}

func studentListPattern(id string) string  { return fmt.Sprintf("allocations:student:%s:*", id) }
func courseListPattern(id string) string   { return fmt.Sprintf("allocations:course:%s:*", id) }
func lecturerListPattern(id string) string { return fmt.Sprintf("allocations:lecturer:%s:*", id) }
func capacityKey(courseID string) string   { return "capacity:" + courseID }

func statusKey(status models.AllocationStatus) string {
	if status == "" {
		return "all"
	}
	return string(status)
}
