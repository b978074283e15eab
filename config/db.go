package config

import (
	"attendance/domain"
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var db *gorm.DB

// GetDatabaseURL builds the database connection string.
func GetDatabaseURL() string {
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"), sslMode)
	return dsn
}

func GetStorageDriver() string {
	v := os.Getenv("STORAGE_DRIVER")
	if v == "" {
		return StorageDriverPostgres
	}
	return v
}

func GetStudentsSeedFile() string {
	return os.Getenv("STUDENTS_SEED_FILE")
}

// GetAutoMigrate defaults to true; the (dni, fecha) unique index is created by the migration.
func GetAutoMigrate() bool {
	v, err := strconv.ParseBool(os.Getenv("DB_AUTO_MIGRATE"))
	if err != nil {
		return true
	}
	return v
}

// BootDB initializes the database connection and runs migrations.
func BootDB() (*gorm.DB, error) {
	url := GetDatabaseURL()
	var err error

	db, err = gorm.Open(postgres.Open(url), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(GetLogrusInstance(), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if GetAutoMigrate() {
		if err := autoMigrate(db); err != nil {
			return db, err
		}
	}

	GetLogrusInstance().Info("DB initialized")
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	// Students first, attendance references them.
	if err := db.AutoMigrate(&domain.Student{}); err != nil {
		return fmt.Errorf("failed to migrate base tables: %w", err)
	}

	if err := db.AutoMigrate(&domain.Attendance{}); err != nil {
		return fmt.Errorf("failed to migrate relational tables: %w", err)
	}

	return nil
}
