package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Every model must migrate onto sqlite so repository tests can run against an
// in-memory database; IDs are assigned in Go, never by a column default.
func TestModelsMigrateOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	all := []any{
		&User{},
		&Permission{},
		&UserPermission{},
		&Category{},
		&Tag{},
		&Post{},
		&PostCategory{},
		&PostTag{},
		&Page{},
		&Event{},
		&Service{},
		&Secretariat{},
		&TourismPoint{},
		&Slide{},
		&Gallery{},
		&GalleryImage{},
		&Form{},
		&FormSubmission{},
		&MediaFile{},
		&Setting{},
		&OutboxEvent{},
	}
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := User{
		ID:           uuid.New(),
		Email:        "editor@prefeitura.example",
		Name:         "Editora",
		PasswordHash: "argon2id$stub",
		Role:         "editor",
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("insert user: %v", err)
	}

	var loaded User
	if err := db.First(&loaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if loaded.Email != user.Email {
		t.Fatalf("email = %q", loaded.Email)
	}
}
