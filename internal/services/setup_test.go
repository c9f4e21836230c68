package services

import (
	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SetupTestDB initializes a fresh in-memory SQLite DB for testing.
func SetupTestDB() {
	logger.Init("test")

	db, _ := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Notification{},
		&models.Credential{},
		&models.Connection{},
		&models.UserBlock{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.Report{},
	)
}

func seedUser(id, name string) models.User {
	u := models.User{ID: id, Name: name, Username: id, Email: id + "@example.com"}
	database.DB.Create(&u)
	return u
}
