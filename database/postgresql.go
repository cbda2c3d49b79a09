package database

import (
	"YouthHealth/models"
	"YouthHealth/utils"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// Options configures InitDB.
type Options struct {
	Debug         bool
	AdminEmail    string
	AdminPassword string
	Logger        *logrus.Logger
}

// InitDB initializes the database connection and configures it.
func InitDB(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	var err error
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	logMode := logger.Silent
	if opts.Debug {
		logMode = logger.Info
	}

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(DB); err != nil {
		return nil, err
	}

	if err := testDatabaseConnection(ctx, DB); err != nil {
		return nil, err
	}

	if err := runMigrations(DB); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	if err := seedAdmin(ctx, DB, opts.AdminEmail, opts.AdminPassword); err != nil {
		return nil, err
	}

	opts.Logger.Info("Database initialized successfully.")
	return DB, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Consultation{},
		&models.Message{},
		&models.Activity{},
		&models.GamePlay{},
	)
}

// seedAdmin creates the first admin account when none exists yet.
func seedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count admins")
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "failed to hash admin password")
	}
	admin := models.User{
		ID:         uuid.New().String(),
		Name:       "Administrator",
		Email:      email,
		Role:       models.RoleAdmin,
		Password:   hashed,
		LastActive: time.Now(),
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return errors.Wrap(err, "failed to seed admin")
	}
	return nil
}
