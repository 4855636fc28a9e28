package config

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/necohost/pos/internal/models"
	pkgdb "github.com/necohost/pos/pkg/db"
)

type Config struct {
	DB_HOST        string
	DB_PORT        string
	DB_USER        string
	DB_PASSWORD    string
	DB_NAME        string
	ES_URL         string
	ES_USER        string
	ES_PASSWORD    string
	JWT_SECRET     string
	REFRESH_SECRET string
	KAFKA_ADDRESS  string
	KAFKA_TOPIC    string
	LOG_LEVEL      string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:        os.Getenv("DB_HOST"),
		DB_PORT:        os.Getenv("DB_PORT"),
		DB_USER:        os.Getenv("DB_USER"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		JWT_SECRET:     os.Getenv("JWT_SECRET"),
		REFRESH_SECRET: os.Getenv("REFRESH_SECRET"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		KAFKA_TOPIC:    os.Getenv("KAFKA_TOPIC"),
		LOG_LEVEL:      os.Getenv("LOG_LEVEL"),
	}

	if config.KAFKA_TOPIC == "" {
		config.KAFKA_TOPIC = "notifications"
	}

	return config, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)
}

func InitDB() (*gorm.DB, error) {
	configuration, _ := LoadConfig()

	db, err := pkgdb.Open(context.Background(), configuration.DSN())
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("cannot run migration: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Menu{},
		&models.Sales{},
		&models.OrderNum{},
		&models.Device{},
		&models.Coupon{},
		&models.User{},
		&models.RefreshToken{},
	); err != nil {
		return err
	}
	return seedDevices(db)
}

func seedDevices(db *gorm.DB) error {
	devices := []models.Device{
		{ID: models.DeviceKiosk, Name: "키오스크"},
		{ID: models.DevicePOS, Name: "포스"},
		{ID: models.DeviceTable, Name: "테이블"},
	}
	for _, d := range devices {
		var existing models.Device
		if err := db.Where("id = ?", d.ID).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&d).Error; err != nil {
			return fmt.Errorf("seed device %d: %w", d.ID, err)
		}
	}
	return nil
}
