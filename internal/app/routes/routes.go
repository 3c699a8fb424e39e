package routes

import (
	"time"

	"fieldops-http-service/internal/app/controllers"
	"fieldops-http-service/internal/app/middleware"
	"fieldops-http-service/internal/domain/services/container"
	"fieldops-http-service/internal/infrastructure/config"
	"fieldops-http-service/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter initializes and returns the configured router
func SetupRouter(pool *database.ConnectionPool, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	db := pool.GetDB()
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	middleware.InitAuthMiddleware(cfg, db)

	// Swagger documentation route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer, pool)
	return r
}

// registerRoutes configures all API routes
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	pool *database.ConnectionPool,
) {
	api := r.Group("/api")
	registerPublicRoutes(api, container, pool)
	registerTechnicianRoutes(api, container)
	registerAdminRoutes(api, container)
}

// registerPublicRoutes registers the unauthenticated routes
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	pool *database.ConnectionPool,
) {
	// 10 requests per second per IP, burst of 20
	api.Use(middleware.IPRateLimiter(10, 20))

	health := controllers.NewHealthCheckController(pool)
	api.GET("/ping", health.Ping)
	api.GET("/health", health.Health)

	healthGroup := api.Group("/health")
	healthGroup.GET("/status", health.Health)
	healthGroup.GET("/cache-stats", health.CacheStats)

	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerTechnicianRoutes registers the work order lifecycle routes.
// Admins may use them too.
func registerTechnicianRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	tech := api.Group("/")
	tech.Use(middleware.AuthenticateTechnician())
	tech.Use(middleware.IPRateLimiter(30, 50))

	tech.POST("/work-orders", controllers.HandleWorkOrderFunc(container, "createWorkOrder"))
	tech.GET("/work-orders", controllers.HandleWorkOrderFunc(container, "getWorkOrders"))
	tech.GET("/work-orders/:id", controllers.HandleWorkOrderFunc(container, "getWorkOrder"))
	tech.PUT("/work-orders/:id", controllers.HandleWorkOrderFunc(container, "updateWorkOrder"))

	tech.POST("/work-orders/:id/edit-requests", controllers.HandleEditRequestFunc(container, "submitEditRequest"))
}

// registerAdminRoutes registers the review and reporting routes
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())
	admin.Use(middleware.IPRateLimiter(30, 50))

	admin.GET("/edit-requests", controllers.HandleEditRequestFunc(container, "getEditRequests"))
	admin.POST("/edit-requests/:id/approve", controllers.HandleEditRequestFunc(container, "approveEditRequest"))
	admin.POST("/edit-requests/:id/reject", controllers.HandleEditRequestFunc(container, "rejectEditRequest"))

	admin.GET("/reports/dashboard", middleware.Cache(middleware.CacheConfig{Expiration: 10 * time.Second}), controllers.HandleReportFunc(container, "getDashboard"))
	admin.GET("/reports/locations", middleware.CacheByParams(time.Minute, "governorate", "district"), controllers.HandleReportFunc(container, "getLocationOptions"))
	admin.GET("/reports/work-orders", controllers.HandleReportFunc(container, "filterWorkOrders"))
}
