package container

import (
	"context"
	"sync"
	"time"

	"fieldops-http-service/internal/domain/services"
	"fieldops-http-service/internal/infrastructure/config"
	"fieldops-http-service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer wires the services together for dependency injection
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// Identity
	jwtService services.InterfaceJWTService

	// Caching
	redisService services.InterfaceRedisService

	// Notifications
	notifyService services.InterfaceNotifyService

	// Collaborators
	geocodeService services.InterfaceGeocodeService
	visionService  services.InterfaceVisionService

	// Core domain services
	facilityService    services.InterfaceFacilityService
	workOrderService   services.InterfaceWorkOrderService
	editRequestService services.InterfaceEditRequestService
	reportService      services.InterfaceReportService

	mu sync.RWMutex
}

// NewServiceContainer creates a new service container
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}

	if cfg == nil {
		panic("config is nil")
	}

	// Probe the Redis connection; a failure just disables caching.
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warning("Redis ping failed: %v, caching disabled", err)
			redisClient = nil
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices initializes all services
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jwtService = services.NewJWTService(c.config, c.db)

	if c.redis != nil {
		c.redisService = services.NewRedisService(c.config)
	}

	c.notifyService = services.NewNotifyService(c.config)
	if err := c.notifyService.Connect(); err != nil {
		logger.Warning("MQTT connection failed: %v, notifications disabled", err)
	}

	c.geocodeService = services.NewGeocodeService(c.config)
	c.visionService = services.NewVisionService(c.config)

	c.facilityService = services.NewFacilityService(c.db, c.config, c.geocodeService, c.visionService)
	c.workOrderService = services.NewWorkOrderService(c.db, c.config)
	c.editRequestService = services.NewEditRequestService(c.db, c.config)
	c.reportService = services.NewReportService(c.db, c.config, c.redisService)
}

// GetService returns the service registered under the given name
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "notify":
		return c.notifyService
	case "geocode":
		return c.geocodeService
	case "vision":
		return c.visionService
	case "facility":
		return c.facilityService
	case "work_order":
		return c.workOrderService
	case "edit_request":
		return c.editRequestService
	case "report":
		return c.reportService
	default:
		return nil
	}
}

// GetDB returns the database connection
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
