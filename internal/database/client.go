package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/muadhin/internal/log"
	"go.uber.org/zap"
)

// CreateConnection opens a Postgres connection with the standard GORM
// configuration and migrates the notification preference table
func CreateConnection(connectionString string) (*gorm.DB, error) {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Missing preferences read as enabled
			Colorful:                  false,
		},
	)

	log.Info("connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a Postgres connection:", err)
		return nil, err
	}

	if err := db.AutoMigrate(&NotificationPreference{}); err != nil {
		return nil, fmt.Errorf("error migrating notification preferences: %w", err)
	}
	log.Info("Postgres connection successful")

	return db, nil
}
