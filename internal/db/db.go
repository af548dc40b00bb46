package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

// logWriter receives gorm's query log.
var logWriter logger.Writer = log.New(os.Stdout, "\r\n", log.LstdFlags)

// newLogger reports slow queries and errors. Expected misses such as the
// username check at registration are not errors.
func newLogger() logger.Interface {
	return logger.New(logWriter, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported driver %q", driver)
}

// Connect opens the database and applies pool settings. SQLite gets a single
// connection because it serialises writers anyway.
func Connect(driver, dsn string) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: newLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	log.Printf("Database connected (driver: %s)", driver)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes an existing
// user with that name. An empty username is a no-op.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	if username == "" {
		return nil
	}

	var u models.User
	err := db.Where("username = ?", username).First(&u).Error
	if err == nil {
		if u.IsAdmin {
			return nil
		}
		return db.Model(&u).Update("is_admin", true).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if len(password) < 6 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 6 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u = models.User{Username: username, PasswordHash: hash, IsAdmin: true}
	if err := db.Create(&u).Error; err != nil {
		return err
	}
	log.Printf("Admin account %q created", username)
	return nil
}
