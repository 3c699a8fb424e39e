package services

import (
	"context"
	"encoding/json"
	"time"

	"fieldops-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// dashboardStatsKey is where the reporting service parks its counters.
const dashboardStatsKey = "report:dashboard_stats"

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheDashboardStats(stats *DashboardStats, expiration time.Duration) error
	GetDashboardStats() (*DashboardStats, error)
	InvalidateDashboardStats() error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheDashboardStats caches the dashboard counters with expiration
func (s *RedisService) CacheDashboardStats(stats *DashboardStats, expiration time.Duration) error {
	return s.Set(dashboardStatsKey, stats, expiration)
}

// GetDashboardStats gets the cached dashboard counters
func (s *RedisService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.Get(dashboardStatsKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// InvalidateDashboardStats drops the cached counters so the next dashboard
// read recomputes them.
func (s *RedisService) InvalidateDashboardStats() error {
	return s.Delete(dashboardStatsKey)
}
