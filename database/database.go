// File: /database/database.go
package database

import (
	"fitcrew-api/config"
	"fitcrew-api/models"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	return Open(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.LogLevel, log)
}

// Open connects to driver (mysql, postgres or sqlite) at dsn.
func Open(driver, dsn, logLevel string, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   newGormLogger(logLevel, log),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// one writer; also keeps :memory: databases on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

func newGormLogger(level string, log logrus.FieldLogger) logger.Interface {
	gormLevel := logger.Error
	switch strings.ToLower(level) {
	case "debug", "trace":
		gormLevel = logger.Info
	case "info", "warn", "warning":
		gormLevel = logger.Warn
	case "silent":
		gormLevel = logger.Silent
	}
	return logger.New(log, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
	})
}

func Migrate(db *gorm.DB, log logrus.FieldLogger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Group{},
		&models.GroupMember{},
		&models.Workout{},
		&models.Exercise{},
		&models.Reaction{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}
	return nil
}

type indexSpec struct {
	model interface{}
	name  string
}

// addCustomIndexes makes sure the unique indexes the services rely on exist
// even on tables created before they were declared.
func addCustomIndexes(db *gorm.DB, log logrus.FieldLogger) error {
	required := []indexSpec{
		{&models.Friendship{}, "uk_friendships_pair"},
		{&models.GroupMember{}, "uk_group_members_group_user"},
		{&models.Reaction{}, "uk_workout_reactions_workout_user"},
		{&models.Workout{}, "idx_workouts_user_date"},
	}

	m := db.Migrator()
	for _, idx := range required {
		if m.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := m.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
		log.WithField("index", idx.name).Info("Created missing index")
	}
	return nil
}
