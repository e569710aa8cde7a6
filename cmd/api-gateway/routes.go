package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/course-allocation-api/internal/handler"
	"github.com/noah-isme/course-allocation-api/internal/middleware"
	"github.com/noah-isme/course-allocation-api/internal/models"
	"github.com/noah-isme/course-allocation-api/internal/service"
	"github.com/noah-isme/course-allocation-api/pkg/config"
	"github.com/noah-isme/course-allocation-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-allocation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-allocation-api/pkg/middleware/requestid"
)

type routerDeps struct {
	allocations *handler.AllocationHandler
	system      *handler.MetricsHandler
	tokens      middleware.TokenValidator
	metrics     *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(deps.metrics))
		r.GET("/metrics", deps.system.Prometheus)
	}

	r.GET("/health", deps.system.Health)
	r.GET("/ready", deps.system.Ready)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, middleware.JWT(deps.tokens))

	student := api.Group("/student", middleware.RBAC(models.RoleStudent))
	student.POST("/courses/enroll", deps.allocations.Enroll)
	student.POST("/courses/:courseId/drop", deps.allocations.Drop)
	student.GET("/courses/enrolled", deps.allocations.Enrolled)
	student.GET("/courses/eligible", deps.allocations.Eligible)
	student.GET("/allocations", deps.allocations.StudentAllocations)

	lecturer := api.Group("/lecturer", middleware.RBAC(models.RoleLecturer))
	lecturer.GET("/enrollment-requests", deps.allocations.LecturerRequests)
	lecturer.GET("/enrollment-requests/pending", deps.allocations.LecturerPending)
	lecturer.POST("/enrollment-requests/:id/decision", deps.allocations.Decide)
	lecturer.GET("/courses/:courseId/allocations", deps.allocations.CourseAllocations)
	lecturer.GET("/courses/:courseId/capacity", deps.allocations.CourseCapacity)

	staff := api.Group("", middleware.RBAC(models.RoleAdmin, models.RoleHOD))
	staff.GET("/allocations/:id", deps.allocations.Get)
	staff.GET("/courses/:courseId/allocations", deps.allocations.CourseAllocations)

	return r
}
