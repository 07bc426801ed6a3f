package galleries

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Gallery{}, &models.GalleryImage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func seedGallery(t *testing.T, repo *Repository, slug string, urls ...string) *models.Gallery {
	t.Helper()
	images := make([]models.GalleryImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.GalleryImage{URL: url})
	}
	gallery := &models.Gallery{
		ID:       uuid.New(),
		Title:    "Galeria " + slug,
		Slug:     slug,
		Status:   enums.ContentStatusDraft,
		AuthorID: uuid.New(),
	}
	if err := repo.Create(context.Background(), gallery, images); err != nil {
		t.Fatalf("create gallery: %v", err)
	}
	return gallery
}

func TestCreateStoresImagesInOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	gallery := seedGallery(t, repo, "carnaval-2026",
		"https://cdn.example/1.jpg",
		"https://cdn.example/2.jpg",
		"https://cdn.example/3.jpg",
	)

	images, err := repo.Images(ctx, gallery.ID)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("expected 3 images, got %d", len(images))
	}
	for i, img := range images {
		if img.Position != i {
			t.Fatalf("image %d has position %d", i, img.Position)
		}
	}
	if images[0].URL != "https://cdn.example/1.jpg" {
		t.Fatalf("order not preserved: %s", images[0].URL)
	}
}

func TestUpdateReplacesImageSet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	gallery := seedGallery(t, repo, "aniversario-da-cidade",
		"https://cdn.example/old-1.jpg",
		"https://cdn.example/old-2.jpg",
	)

	replacement := []models.GalleryImage{
		{URL: "https://cdn.example/new-1.jpg"},
	}
	if err := repo.Update(ctx, gallery, replacement, true); err != nil {
		t.Fatalf("update: %v", err)
	}

	images, err := repo.Images(ctx, gallery.ID)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 1 || images[0].URL != "https://cdn.example/new-1.jpg" {
		t.Fatalf("set not replaced: %v", images)
	}
}

func TestUpdateWithoutReplacementKeepsImages(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	gallery := seedGallery(t, repo, "natal-iluminado", "https://cdn.example/a.jpg")
	gallery.Title = "Natal Iluminado 2026"
	if err := repo.Update(ctx, gallery, nil, false); err != nil {
		t.Fatalf("update: %v", err)
	}

	images, err := repo.Images(ctx, gallery.ID)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("images should survive metadata updates: %v", images)
	}
}

func TestUpdateWithEmptySetClearsImages(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	gallery := seedGallery(t, repo, "posse-do-prefeito", "https://cdn.example/a.jpg")
	if err := repo.Update(ctx, gallery, nil, true); err != nil {
		t.Fatalf("update: %v", err)
	}

	images, err := repo.Images(ctx, gallery.ID)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected cleared set, got %v", images)
	}
}

func TestDeleteRemovesImageRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	gallery := seedGallery(t, repo, "obras-publicas", "https://cdn.example/a.jpg")

	if err := repo.Delete(ctx, gallery.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, gallery.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	images, err := repo.Images(ctx, gallery.ID)
	if err != nil {
		t.Fatalf("images: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("image rows survived delete: %v", images)
	}
}
