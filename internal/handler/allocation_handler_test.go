package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-allocation-api/internal/dto"
	"github.com/noah-isme/course-allocation-api/internal/middleware"
	"github.com/noah-isme/course-allocation-api/internal/models"
	"github.com/noah-isme/course-allocation-api/internal/service"
	appErrors "github.com/noah-isme/course-allocation-api/pkg/errors"
	"github.com/noah-isme/course-allocation-api/pkg/response"
)

type allocationServiceMock struct {
	enrollResp   *models.AllocationDetail
	enrollErr    error
	decideResp   *models.AllocationDetail
	decideErr    error
	dropErr      error
	listResp     []models.AllocationDetail
	lastStudent  string
	lastLecturer string
	lastStatus   models.AllocationStatus
	lastDecision dto.DecisionRequest
	lastActor    string
	enrollCalled bool
}

func (m *allocationServiceMock) StudentForUser(ctx context.Context, userID string) (*models.Student, error) {
	if userID == "user-stu" {
		return &models.Student{ID: "stu-1", UserID: userID}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
}

func (m *allocationServiceMock) LecturerForUser(ctx context.Context, userID string) (*models.Lecturer, error) {
	if userID == "user-lec" {
		return &models.Lecturer{ID: "lec-1", UserID: userID}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer profile not found")
}

func (m *allocationServiceMock) Enroll(ctx context.Context, studentID string, req dto.EnrollRequest) (*models.AllocationDetail, error) {
	m.enrollCalled = true
	m.lastStudent = studentID
	return m.enrollResp, m.enrollErr
}

func (m *allocationServiceMock) Decide(ctx context.Context, allocationID string, req dto.DecisionRequest, actorID string) (*models.AllocationDetail, error) {
	m.lastDecision = req
	m.lastActor = actorID
	return m.decideResp, m.decideErr
}

func (m *allocationServiceMock) Drop(ctx context.Context, studentID, courseID, actorID string) (*models.AllocationDetail, error) {
	m.lastStudent = studentID
	m.lastActor = actorID
	return &models.AllocationDetail{}, m.dropErr
}

func (m *allocationServiceMock) Get(ctx context.Context, id string) (*models.AllocationDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation "+id+" not found")
}

func (m *allocationServiceMock) ListByStudent(ctx context.Context, studentID string, status models.AllocationStatus) ([]models.AllocationDetail, error) {
	m.lastStudent = studentID
	m.lastStatus = status
	return m.listResp, nil
}

func (m *allocationServiceMock) ListEnrolled(ctx context.Context, studentID string) ([]models.AllocationDetail, error) {
	return m.listResp, nil
}

func (m *allocationServiceMock) ListByCourse(ctx context.Context, courseID string, status models.AllocationStatus) ([]models.AllocationDetail, error) {
	m.lastStatus = status
	return m.listResp, nil
}

func (m *allocationServiceMock) ListByLecturer(ctx context.Context, lecturerID string, status models.AllocationStatus) ([]models.AllocationDetail, error) {
	m.lastLecturer = lecturerID
	m.lastStatus = status
	return m.listResp, nil
}

func (m *allocationServiceMock) ListPendingForLecturer(ctx context.Context, lecturerID string) ([]models.AllocationDetail, error) {
	m.lastLecturer = lecturerID
	return m.listResp, nil
}

func (m *allocationServiceMock) CourseCapacity(ctx context.Context, courseID string) (*models.CourseCapacity, error) {
	return &models.CourseCapacity{CourseID: courseID, MaxCapacity: 30}, nil
}

func (m *allocationServiceMock) EligibleCourses(ctx context.Context, studentID string) ([]models.Course, error) {
	return []models.Course{{ID: "course-1"}}, nil
}

func newTestContext(method, target string, body []byte, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *appErrors.Error {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error
}

func TestAllocationHandlerEnrollCreated(t *testing.T) {
	mockSvc := &allocationServiceMock{enrollResp: &models.AllocationDetail{Allocation: models.Allocation{ID: "alloc-1", Status: models.AllocationStatusPending}}}
	handler := NewAllocationHandler(mockSvc)

	payload, _ := json.Marshal(dto.EnrollRequest{CourseID: "course-1"})
	c, w := newTestContext(http.MethodPost, "/student/courses/enroll", payload, &models.JWTClaims{UserID: "user-stu", Role: models.RoleStudent})

	handler.Enroll(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "stu-1", mockSvc.lastStudent)
}

func TestAllocationHandlerEnrollBusinessErrorIs400(t *testing.T) {
	mockSvc := &allocationServiceMock{enrollErr: appErrors.Clone(appErrors.ErrGPATooLow, "student GPA (2.00) does not meet the course minimum (2.50)")}
	handler := NewAllocationHandler(mockSvc)

	payload, _ := json.Marshal(dto.EnrollRequest{CourseID: "course-1"})
	c, w := newTestContext(http.MethodPost, "/student/courses/enroll", payload, &models.JWTClaims{UserID: "user-stu", Role: models.RoleStudent})

	handler.Enroll(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	appErr := decodeError(t, w)
	assert.Equal(t, appErrors.ErrGPATooLow.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "2.00")
}

func TestAllocationHandlerEnrollInvalidBody(t *testing.T) {
	mockSvc := &allocationServiceMock{}
	handler := NewAllocationHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/student/courses/enroll", []byte(`{"courseId":`), &models.JWTClaims{UserID: "user-stu", Role: models.RoleStudent})

	handler.Enroll(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.enrollCalled)
}

func TestAllocationHandlerEnrollWithoutStudentProfile(t *testing.T) {
	handler := NewAllocationHandler(&allocationServiceMock{})

	payload, _ := json.Marshal(dto.EnrollRequest{CourseID: "course-1"})
	c, w := newTestContext(http.MethodPost, "/student/courses/enroll", payload, &models.JWTClaims{UserID: "user-unknown", Role: models.RoleStudent})

	handler.Enroll(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAllocationHandlerMissingClaims(t *testing.T) {
	handler := NewAllocationHandler(&allocationServiceMock{})

	c, w := newTestContext(http.MethodGet, "/student/allocations", nil, nil)
	handler.StudentAllocations(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAllocationHandlerDecidePassesActor(t *testing.T) {
	mockSvc := &allocationServiceMock{decideResp: &models.AllocationDetail{}}
	handler := NewAllocationHandler(mockSvc)

	payload, _ := json.Marshal(dto.DecisionRequest{Status: models.AllocationStatusApproved, Comment: "ok"})
	c, w := newTestContext(http.MethodPost, "/lecturer/enrollment-requests/alloc-1/decision", payload, &models.JWTClaims{UserID: "user-lec", Role: models.RoleLecturer})
	c.Params = gin.Params{{Key: "id", Value: "alloc-1"}}

	handler.Decide(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AllocationStatusApproved, mockSvc.lastDecision.Status)
	assert.Equal(t, "user-lec", mockSvc.lastActor)
}

func TestAllocationHandlerDecideCapacityExceeded(t *testing.T) {
	handler := NewAllocationHandler(&allocationServiceMock{decideErr: appErrors.ErrCapacityExceeded})

	payload, _ := json.Marshal(dto.DecisionRequest{Status: models.AllocationStatusApproved})
	c, w := newTestContext(http.MethodPost, "/lecturer/enrollment-requests/alloc-1/decision", payload, &models.JWTClaims{UserID: "user-lec", Role: models.RoleLecturer})

	handler.Decide(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, decodeError(t, w).Code)
}

func TestAllocationHandlerDropNotApproved(t *testing.T) {
	mockSvc := &allocationServiceMock{dropErr: appErrors.ErrNotApproved}
	handler := NewAllocationHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/student/courses/course-1/drop", nil, &models.JWTClaims{UserID: "user-stu", Role: models.RoleStudent})
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}

	handler.Drop(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "user-stu", mockSvc.lastActor)
}

func TestAllocationHandlerLecturerRequestsStatusFilter(t *testing.T) {
	mockSvc := &allocationServiceMock{listResp: []models.AllocationDetail{{}, {}}}
	handler := NewAllocationHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/lecturer/enrollment-requests?status=APPROVED", nil, &models.JWTClaims{UserID: "user-lec", Role: models.RoleLecturer})

	handler.LecturerRequests(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lec-1", mockSvc.lastLecturer)
	assert.Equal(t, models.AllocationStatusApproved, mockSvc.lastStatus)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.EqualValues(t, 2, envelope.Meta["total"])
}

func TestAllocationHandlerGetNotFound(t *testing.T) {
	handler := NewAllocationHandler(&allocationServiceMock{})

	c, w := newTestContext(http.MethodGet, "/allocations/alloc-9", nil, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: "alloc-9"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "alloc-9")
}

func TestAllocationHandlerInternalErrorHidesCause(t *testing.T) {
	handler := NewAllocationHandler(&allocationServiceMock{enrollErr: errors.New("pq: connection refused")})

	payload, _ := json.Marshal(dto.EnrollRequest{CourseID: "course-1"})
	c, w := newTestContext(http.MethodPost, "/student/courses/enroll", payload, &models.JWTClaims{UserID: "user-stu", Role: models.RoleStudent})

	handler.Enroll(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func TestMetricsHandlerReady(t *testing.T) {
	ok := NewMetricsHandler(service.NewMetricsService(), pingerStub{})
	c, w := newTestContext(http.MethodGet, "/ready", nil, nil)
	ok.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewMetricsHandler(nil, pingerStub{err: sql.ErrConnDone})
	c, w = newTestContext(http.MethodGet, "/ready", nil, nil)
	down.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
