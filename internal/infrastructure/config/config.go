package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // "auto" (default) or "drop" (drop and recreate all tables)

	// Server
	ServerPort string

	// Redis
	RedisHost string
	RedisPort string
	RedisDB   int

	// Work order lifecycle
	EditWindowMinutes int // self-service edit window after creation

	// Geocoding collaborator
	GeocodeAPIURL string
	GeocodeAPIKey string

	// Vision label-tagging collaborator
	VisionAPIURL string
	VisionAPIKey string

	// MQTT notifications
	MQTTBrokerURL string // e.g. tcp://broker.example.com:1883
	MQTTClientID  string
	MQTTUsername  string
	MQTTPassword  string
	MQTTQoS       int

	// JWT Authentication
	JWTSecretKey string

	// Seeded accounts. Static table by design: username:password:role triples
	// separated by commas, e.g. "tech1:tech1pass:technician,admin1:adminpass:admin".
	SeedUsers string
}

// SeedUser is one entry of the static user table.
type SeedUser struct {
	Username string
	Password string
	Role     string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	if strings.ToUpper(envType) == "LOCAL" {
		prefix = "LOCAL_"
	} else if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
	} else {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	return &Config{
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBHost:          getEnv(prefix+"DB_HOST", getEnv("DB_HOST", "localhost")),
		DBUser:          getEnv(prefix+"DB_USER", getEnv("DB_USER", "root")),
		DBPassword:      getEnv(prefix+"DB_PASSWORD", getEnv("DB_PASSWORD", "")),
		DBName:          getEnv(prefix+"DB_NAME", getEnv("DB_NAME", "fieldops_db")),
		DBPort:          getEnv(prefix+"DB_PORT", getEnv("DB_PORT", "3306")),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", getEnv("DB_MIGRATION_MODE", "auto")),

		// Server config
		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),

		// Redis config
		RedisHost: getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort: getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		// Work order lifecycle config
		EditWindowMinutes: getEnvAsInt("EDIT_WINDOW_MINUTES", 30),

		// Geocoding config
		GeocodeAPIURL: getEnv("GEOCODE_API_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GeocodeAPIKey: getEnv("GEOCODE_API_KEY", ""),

		// Vision config
		VisionAPIURL: getEnv("VISION_API_URL", ""),
		VisionAPIKey: getEnv("VISION_API_KEY", ""),

		// MQTT config
		MQTTBrokerURL: getEnv("MQTT_BROKER_URL", ""),
		MQTTClientID:  getEnv("MQTT_CLIENT_ID", "fieldops-http-service"),
		MQTTUsername:  getEnv("MQTT_USERNAME", ""),
		MQTTPassword:  getEnv("MQTT_PASSWORD", ""),
		MQTTQoS:       getEnvAsInt("MQTT_QOS", 1),

		// JWT Config
		JWTSecretKey: getEnv("JWT_SECRET_KEY", "fieldops-secret-key-change-in-production"),

		// Seeded accounts
		SeedUsers: getEnv("SEED_USERS", "tech1:tech1pass:technician,admin1:admin1pass:admin"),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true&multiStatements=true"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// EditWindow returns the self-service edit window as a duration.
func (c *Config) EditWindow() time.Duration {
	return time.Duration(c.EditWindowMinutes) * time.Minute
}

// ParseSeedUsers parses the SeedUsers triples, skipping malformed entries.
func (c *Config) ParseSeedUsers() []SeedUser {
	var users []SeedUser
	for _, entry := range strings.Split(c.SeedUsers, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 || parts[0] == "" {
			continue
		}
		users = append(users, SeedUser{Username: parts[0], Password: parts[1], Role: parts[2]})
	}
	return users
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
