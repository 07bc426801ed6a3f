package taxonomy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Tag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func TestUpsertCategoryBySlugIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.UpsertCategoryBySlug(ctx, "Notícias", "noticias", enums.TaxonomyDomainPost, nil)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	desc := "notas oficiais"
	second, err := repo.UpsertCategoryBySlug(ctx, "Notícias Oficiais", "noticias", enums.TaxonomyDomainPost, &desc)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same row, got %s and %s", first.ID, second.ID)
	}
	if second.Name != "Notícias Oficiais" {
		t.Fatalf("name not refreshed: %s", second.Name)
	}
	if second.Description == nil || *second.Description != desc {
		t.Fatalf("description not refreshed: %v", second.Description)
	}

	var count int64
	repo.db.Model(&models.Category{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected single row, got %d", count)
	}
}

func TestUpsertCategorySameSlugDifferentType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.UpsertCategoryBySlug(ctx, "Cultura", "cultura", enums.TaxonomyDomainPost, nil)
	if err != nil {
		t.Fatalf("post upsert: %v", err)
	}
	b, err := repo.UpsertCategoryBySlug(ctx, "Cultura", "cultura", enums.TaxonomyDomainEvent, nil)
	if err != nil {
		t.Fatalf("event upsert: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("expected distinct rows per type")
	}
}

func TestListCategoriesTotalIndependentOfPage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	names := []string{"Saúde", "Educação", "Obras", "Esporte", "Turismo"}
	for _, name := range names {
		if _, err := repo.UpsertCategoryBySlug(ctx, name, "cat-"+name, enums.TaxonomyDomainPost, nil); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	rows, total, err := repo.ListCategories(ctx, ListQuery{
		Page: pagination.Params{Skip: 0, Take: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != int64(len(names)) {
		t.Fatalf("expected total %d, got %d", len(names), total)
	}
	if len(rows) != 2 {
		t.Fatalf("expected page of 2, got %d", len(rows))
	}
}

func TestListCategoriesSearchFiltersNameAndSlug(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.UpsertCategoryBySlug(ctx, "Saúde Pública", "saude-publica", enums.TaxonomyDomainPost, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.UpsertCategoryBySlug(ctx, "Obras", "obras", enums.TaxonomyDomainPost, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows, total, err := repo.ListCategories(ctx, ListQuery{
		Search: "saude",
		Page:   pagination.Params{Take: 10},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected one match, got total=%d rows=%d", total, len(rows))
	}
	if rows[0].Slug != "saude-publica" {
		t.Fatalf("unexpected match %s", rows[0].Slug)
	}
}

func TestListTagsTypeFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.UpsertTagBySlug(ctx, "Verão", "verao", enums.TaxonomyDomainEvent); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.UpsertTagBySlug(ctx, "Verão", "verao", enums.TaxonomyDomainTourism); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rows, total, err := repo.ListTags(ctx, ListQuery{
		Type: enums.TaxonomyDomainTourism,
		Page: pagination.Params{Take: 10},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected one tourism tag, got total=%d rows=%d", total, len(rows))
	}
	if rows[0].Type != enums.TaxonomyDomainTourism {
		t.Fatalf("unexpected type %s", rows[0].Type)
	}
}

func TestDeleteCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	row, err := repo.UpsertCategoryBySlug(ctx, "Temporária", "temporaria", enums.TaxonomyDomainPost, nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.DeleteCategory(ctx, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindCategoryByID(ctx, row.ID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found after delete, got %v", err)
	}
	if err := repo.DeleteCategory(ctx, uuid.New()); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found for unknown id, got %v", err)
	}
}
