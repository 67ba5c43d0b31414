package database

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stationery-admin/internal/logger"
	"stationery-admin/internal/models"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.L().Fatal("DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Wait for the DB to be ready (fresh docker-compose starts are slow)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			break
		}
		logger.L().Warn("Failed to connect to database, retrying in 2 seconds",
			zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		logger.L().Fatal("Failed to connect to database after 5 attempts", zap.Error(err))
	}

	logger.L().Info("Connected to MySQL")

	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.SetItem{},
		&models.Student{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.SetComponent{},
		&models.Vendor{},
		&models.StockEntry{},
		&models.StockTransfer{},
		&models.Setting{},
	)
	if err != nil {
		logger.L().Fatal("Auto-migration failed", zap.Error(err))
	}

	logger.L().Info("Database schema synced")
}
