// @title           FieldOps HTTP Service API
// @version         1.0
// @description     Field service work order tracking with edit request arbitration
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"fieldops-http-service/internal/app/routes"
	"fieldops-http-service/internal/domain/models"
	"fieldops-http-service/internal/infrastructure/config"
	"fieldops-http-service/internal/infrastructure/database"
	Logger "fieldops-http-service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		Logger.Warning("could not load .env file: %v", err)
		// Environment variables may already be set another way.
	} else {
		Logger.Info(".env file loaded")
	}

	cfg := config.GetConfig()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("failed to create database connection pool: %v", err)
	}
	db := pool.GetDB()

	if cfg.DBMigrationMode == "drop" {
		log.Println("WARNING: running in drop mode, all tables will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("drop and recreate failed: %v", err)
		}
	} else {
		log.Println("running in standard mode, only new columns and tables will be added")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("auto migration failed: %v", err)
		}
	}

	ensureSeedUsers(db, cfg)

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.GetRedisAddr(),
		DB:   cfg.RedisDB,
	})

	r := routes.SetupRouter(pool, cfg, redisClient)

	port := cfg.ServerPort

	printSystemInfo(pool)

	Logger.Info("server listening on http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("failed to start server: %v", err)
		os.Exit(1)
	}
}

// autoMigrate migrates all models, adding new columns and tables only
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.WorkOrder{},
		&models.EditRequest{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables drops all tables and recreates them
func dropAndRecreateTables(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	_, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0")
	if err != nil {
		log.Printf("failed to disable foreign key checks: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")

	tables := []string{"edit_requests", "work_orders", "facilities", "users"}

	for _, table := range tables {
		log.Printf("dropping table: %s", table)
		if _, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			log.Printf("drop table failed: %v", err)
		}
	}

	return autoMigrate(db)
}

// ensureSeedUsers inserts the configured accounts when they are missing.
// Passwords are stored as configured; accounts come from static
// configuration, not self-service signup.
func ensureSeedUsers(db *gorm.DB, cfg *config.Config) {
	for _, seed := range cfg.ParseSeedUsers() {
		var count int64
		db.Model(&models.User{}).Where("username = ?", seed.Username).Count(&count)
		if count > 0 {
			continue
		}

		user := models.User{
			Username: seed.Username,
			Password: seed.Password,
			Role:     seed.Role,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("failed to seed user %s: %v", seed.Username, err)
			continue
		}
		log.Printf("seeded %s account: %s", seed.Role, seed.Username)
	}
}

// printSystemInfo logs pool and runtime statistics at startup
func printSystemInfo(pool *database.ConnectionPool) {
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("database connection pool: %+v", stats)
	}

	log.Printf("CPU cores: %d", runtime.NumCPU())
	log.Printf("goroutines: %d", runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("memory: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
