package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/spshpau/project-service/internal/api/http"
	"github.com/spshpau/project-service/internal/api/http/middleware"
	"github.com/spshpau/project-service/internal/auth"
	budgethttp "github.com/spshpau/project-service/internal/budgets/http"
	budgetrepo "github.com/spshpau/project-service/internal/budgets/repository"
	budgetsvc "github.com/spshpau/project-service/internal/budgets/service"
	"github.com/spshpau/project-service/internal/connections"
	filehttp "github.com/spshpau/project-service/internal/files/http"
	filerepo "github.com/spshpau/project-service/internal/files/repository"
	filesvc "github.com/spshpau/project-service/internal/files/service"
	"github.com/spshpau/project-service/internal/files/urlcache"
	milestonehttp "github.com/spshpau/project-service/internal/milestones/http"
	milestonerepo "github.com/spshpau/project-service/internal/milestones/repository"
	milestonesvc "github.com/spshpau/project-service/internal/milestones/service"
	projecthttp "github.com/spshpau/project-service/internal/projects/http"
	projectrepo "github.com/spshpau/project-service/internal/projects/repository"
	projectsvc "github.com/spshpau/project-service/internal/projects/service"
	"github.com/spshpau/project-service/internal/storage"
	taskhttp "github.com/spshpau/project-service/internal/tasks/http"
	taskrepo "github.com/spshpau/project-service/internal/tasks/repository"
	tasksvc "github.com/spshpau/project-service/internal/tasks/service"
	"github.com/spshpau/project-service/internal/users"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	CORSOrigins    []string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	Storage        storage.ObjectStorage
	TokenVerifier  auth.TokenVerifier
	ConnectionsURL string
	PresignTTL     time.Duration
}

// BuildRouter wires every layer together and returns the ready engine.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	identity := users.NewService(userRepo)

	projectRepo := projectrepo.NewProjectRepository(dep.DB)
	directory := connections.NewClient(dep.ConnectionsURL)
	projectService := projectsvc.NewProjectService(projectRepo, identity, directory)

	budgetService := budgetsvc.NewBudgetService(
		budgetrepo.NewBudgetRepository(dep.DB),
		budgetrepo.NewExpenseRepository(dep.DB),
		projectService,
	)
	milestoneService := milestonesvc.NewMilestoneService(
		milestonerepo.NewMilestoneRepository(dep.DB),
		projectService,
	)
	taskService := tasksvc.NewTaskService(
		taskrepo.NewTaskRepository(dep.DB),
		projectService,
		identity,
	)
	fileService := filesvc.NewFileService(
		filerepo.NewFileRepository(dep.DB),
		dep.Storage,
		projectService,
		identity,
		urlcache.New(dep.Redis),
		dep.PresignTTL,
	)

	api := r.Group("/api/v1")
	api.Use(auth.Middleware(dep.TokenVerifier))

	projectsGroup := api.Group("/projects")
	projecthttp.NewHandler(projectService).Register(projectsGroup)
	budgethttp.NewHandler(budgetService).Register(projectsGroup)
	milestonehttp.NewHandler(milestoneService).Register(projectsGroup)
	taskhttp.NewHandler(taskService).Register(projectsGroup)
	filehttp.NewHandler(fileService).Register(projectsGroup)

	return r
}
