package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/database/status"
	"github.com/openlibdev/catalog-export/internal/export"
	"github.com/openlibdev/catalog-export/internal/tasks"
)

// RouterConfig carries the router's dependencies. A nil TaskClient
// leaves the task endpoints unregistered; exports then run in-process.
type RouterConfig struct {
	Database   *database.Database
	StatusRepo *status.Repository
	Registry   *export.Registry
	Trigger    TriggerFunc
	TaskClient *tasks.Client
	Version    string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)

	exportsController := NewExportsController(cfg.StatusRepo, cfg.Registry, cfg.Trigger)
	api := router.Group("/api")
	{
		api.POST("/exports", exportsController.Run)
		api.GET("/exports", exportsController.List)
		api.GET("/exports/types", exportsController.Types)
		api.GET("/exports/:job_id", exportsController.Get)

		if cfg.TaskClient != nil {
			tasksController := NewTasksController(cfg.TaskClient)
			api.GET("/tasks/:id", tasksController.GetTaskStatus)
		}
	}

	return router
}
