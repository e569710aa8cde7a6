package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-allocation-api/internal/dto"
	"github.com/noah-isme/course-allocation-api/internal/models"
	appErrors "github.com/noah-isme/course-allocation-api/pkg/errors"
	"github.com/noah-isme/course-allocation-api/pkg/response"
)

type allocationService interface {
	StudentForUser(ctx context.Context, userID string) (*models.Student, error)
	LecturerForUser(ctx context.Context, userID string) (*models.Lecturer, error)
	Enroll(ctx context.Context, studentID string, req dto.EnrollRequest) (*models.AllocationDetail, error)
	Decide(ctx context.Context, allocationID string, req dto.DecisionRequest, actorID string) (*models.AllocationDetail, error)
	Drop(ctx context.Context, studentID, courseID, actorID string) (*models.AllocationDetail, error)
	Get(ctx context.Context, id string) (*models.AllocationDetail, error)
	ListByStudent(ctx context.Context, studentID string, status models.AllocationStatus) ([]models.AllocationDetail, error)
	ListEnrolled(ctx context.Context, studentID string) ([]models.AllocationDetail, error)
	ListByCourse(ctx context.Context, courseID string, status models.AllocationStatus) ([]models.AllocationDetail, error)
	ListByLecturer(ctx context.Context, lecturerID string, status models.AllocationStatus) ([]models.AllocationDetail, error)
	ListPendingForLecturer(ctx context.Context, lecturerID string) ([]models.AllocationDetail, error)
	CourseCapacity(ctx context.Context, courseID string) (*models.CourseCapacity, error)
	EligibleCourses(ctx context.Context, studentID string) ([]models.Course, error)
}

// AllocationHandler exposes the enrollment workflow to students, lecturers and staff.
type AllocationHandler struct {
	service allocationService
}

// NewAllocationHandler builds a new handler.
func NewAllocationHandler(service allocationService) *AllocationHandler {
	return &AllocationHandler{service: service}
}

func (h *AllocationHandler) currentStudent(c *gin.Context) (*models.Student, *models.JWTClaims, error) {
	claims, err := requireClaims(c)
	if err != nil {
		return nil, nil, err
	}
	student, err := h.service.StudentForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return student, claims, nil
}

func (h *AllocationHandler) currentLecturer(c *gin.Context) (*models.Lecturer, *models.JWTClaims, error) {
	claims, err := requireClaims(c)
	if err != nil {
		return nil, nil, err
	}
	lecturer, err := h.service.LecturerForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return lecturer, claims, nil
}

// Enroll godoc
// @Summary Request a seat in a course
// @Tags Student Allocations
// @Accept json
// @Produce json
// @Param payload body dto.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/courses/enroll [post]
func (h *AllocationHandler) Enroll(c *gin.Context) {
	student, _, err := h.currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}
	item, err := h.service.Enroll(c.Request.Context(), student.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Drop godoc
// @Summary Drop an approved course
// @Tags Student Allocations
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/courses/{courseId}/drop [post]
func (h *AllocationHandler) Drop(c *gin.Context) {
	student, claims, err := h.currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.service.Drop(c.Request.Context(), student.ID, c.Param("courseId"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// StudentAllocations godoc
// @Summary List the caller's enrollment requests
// @Tags Student Allocations
// @Produce json
// @Param status query string false "PENDING, APPROVED, DENIED or DROPPED"
// @Success 200 {object} response.Envelope
// @Router /student/allocations [get]
func (h *AllocationHandler) StudentAllocations(c *gin.Context) {
	student, _, err := h.currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListByStudent(c.Request.Context(), student.ID, statusQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// Enrolled godoc
// @Summary List the caller's approved courses
// @Tags Student Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/courses/enrolled [get]
func (h *AllocationHandler) Enrolled(c *gin.Context) {
	student, _, err := h.currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListEnrolled(c.Request.Context(), student.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// Eligible godoc
// @Summary List courses the caller may request
// @Tags Student Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/courses/eligible [get]
func (h *AllocationHandler) Eligible(c *gin.Context) {
	student, _, err := h.currentStudent(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.service.EligibleCourses(c.Request.Context(), student.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses, map[string]interface{}{"total": len(courses)})
}

// LecturerRequests godoc
// @Summary List enrollment requests on the caller's courses
// @Tags Lecturer Allocations
// @Produce json
// @Param status query string false "PENDING, APPROVED, DENIED or DROPPED"
// @Success 200 {object} response.Envelope
// @Router /lecturer/enrollment-requests [get]
func (h *AllocationHandler) LecturerRequests(c *gin.Context) {
	lecturer, _, err := h.currentLecturer(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListByLecturer(c.Request.Context(), lecturer.ID, statusQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// LecturerPending godoc
// @Summary List requests awaiting the caller's decision
// @Tags Lecturer Allocations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lecturer/enrollment-requests/pending [get]
func (h *AllocationHandler) LecturerPending(c *gin.Context) {
	lecturer, _, err := h.currentLecturer(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListPendingForLecturer(c.Request.Context(), lecturer.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// Decide godoc
// @Summary Approve or deny an enrollment request
// @Tags Lecturer Allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lecturer/enrollment-requests/{id}/decision [post]
func (h *AllocationHandler) Decide(c *gin.Context) {
	claims, err := requireClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	item, err := h.service.Decide(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// CourseAllocations godoc
// @Summary List enrollment requests for a course
// @Tags Allocations
// @Produce json
// @Param courseId path string true "Course ID"
// @Param status query string false "PENDING, APPROVED, DENIED or DROPPED"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{courseId}/allocations [get]
func (h *AllocationHandler) CourseAllocations(c *gin.Context) {
	items, err := h.service.ListByCourse(c.Request.Context(), c.Param("courseId"), statusQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// CourseCapacity godoc
// @Summary Show seat usage for a course
// @Tags Lecturer Allocations
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lecturer/courses/{courseId}/capacity [get]
func (h *AllocationHandler) CourseCapacity(c *gin.Context) {
	capacity, err := h.service.CourseCapacity(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, capacity)
}

// Get godoc
// @Summary Get an allocation
// @Tags Allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /allocations/{id} [get]
func (h *AllocationHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}
