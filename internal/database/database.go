package database

import (
	"errors"
	"log"

	"imani/config"
	"imani/internal/domain"
	"imani/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.Cause{},
		&models.CauseImage{},
		&models.Donation{},
		&models.PaymentEvent{},
		&models.NewsPost{},
		&models.Visitation{},
		&models.VisitationImage{},
		&models.GalleryImage{},
	)
}

// SeedAdmin creates the initial ADMIN operator if none exists.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	var admin models.User
	err := db.Where("role = ?", domain.RoleAdmin).First(&admin).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[seed] admin lookup: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] hash admin password: %v", err)
		return
	}
	u := models.User{
		Name:         "Administrator",
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&u).Error; err != nil {
		log.Printf("[seed] create admin: %v", err)
		return
	}
	log.Printf("[seed] admin account created: %s", cfg.Email)
}
