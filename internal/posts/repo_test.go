package posts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

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
	if err := db.AutoMigrate(&models.Post{}, &models.PostCategory{}, &models.PostTag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func seedPost(t *testing.T, repo *Repository, slug string, categoryIDs, tagIDs []uuid.UUID) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:       uuid.New(),
		Title:    "Title " + slug,
		Slug:     slug,
		Body:     "body",
		Status:   enums.ContentStatusDraft,
		AuthorID: uuid.New(),
	}
	if err := repo.Create(context.Background(), post, categoryIDs, tagIDs); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func TestCreateAndLoadWithJoins(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	catA, catB := uuid.New(), uuid.New()
	tag := uuid.New()
	post := seedPost(t, repo, "obras-na-avenida", []uuid.UUID{catA, catB}, []uuid.UUID{tag})

	got, err := repo.FindBySlug(ctx, "obras-na-avenida")
	if err != nil {
		t.Fatalf("find by slug: %v", err)
	}
	if got.ID != post.ID {
		t.Fatalf("expected %s, got %s", post.ID, got.ID)
	}

	cats, err := repo.CategoryIDs(ctx, post.ID)
	if err != nil {
		t.Fatalf("category ids: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	tags, err := repo.TagIDs(ctx, post.ID)
	if err != nil {
		t.Fatalf("tag ids: %v", err)
	}
	if len(tags) != 1 || tags[0] != tag {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestReplaceCategoriesSwapsSet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	keep, old, fresh := uuid.New(), uuid.New(), uuid.New()
	post := seedPost(t, repo, "nova-creche", []uuid.UUID{old, keep}, nil)

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		return repo.ReplaceCategoriesWithTx(tx, post.ID, []uuid.UUID{keep, fresh})
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	cats, err := repo.CategoryIDs(ctx, post.ID)
	if err != nil {
		t.Fatalf("category ids: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range cats {
		seen[id] = true
	}
	if !seen[keep] || !seen[fresh] || seen[old] {
		t.Fatalf("unexpected set: %v", cats)
	}
}

func TestReplaceTagsWithEmptyListClears(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, "campanha-de-vacinacao", nil, []uuid.UUID{uuid.New(), uuid.New()})

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		return repo.ReplaceTagsWithTx(tx, post.ID, nil)
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	tags, err := repo.TagIDs(ctx, post.ID)
	if err != nil {
		t.Fatalf("tag ids: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %v", tags)
	}
}

func TestIncrementViewsAccumulates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, "horario-de-atendimento", nil, nil)

	if err := repo.IncrementViews(ctx, post.ID); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if err := repo.IncrementViews(ctx, post.ID); err != nil {
		t.Fatalf("second increment: %v", err)
	}

	got, err := repo.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("expected 2 views, got %d", got.Views)
	}
}

func TestIncrementViewsUnknownPost(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.IncrementViews(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestPublishStampsStatusAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, "edital-aberto", nil, nil)
	at := time.Now().Truncate(time.Second)

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		return repo.Publish(tx, post.ID, at)
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, err := repo.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != enums.ContentStatusPublished {
		t.Fatalf("expected published, got %s", got.Status)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(at) {
		t.Fatalf("published_at not stamped: %v", got.PublishedAt)
	}
}

func TestDeleteRemovesJoinRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, "festival-de-inverno", []uuid.UUID{uuid.New()}, []uuid.UUID{uuid.New()})

	if err := repo.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, post.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	cats, err := repo.CategoryIDs(ctx, post.ID)
	if err != nil {
		t.Fatalf("category ids: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("join rows survived delete: %v", cats)
	}

	if err := repo.Delete(ctx, post.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found on repeat delete, got %v", err)
	}
}

func TestListFiltersByStatusAndSearch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	draft := seedPost(t, repo, "rascunho-interno", nil, nil)
	published := seedPost(t, repo, "praca-reformada", nil, nil)
	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		return repo.Publish(tx, published.ID, time.Now())
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	rows, total, err := repo.List(ctx, ListQuery{
		PublishedOnly: true,
		Page:          pagination.Normalize(pagination.Params{}),
	})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != published.ID {
		t.Fatalf("expected only the published post, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = repo.List(ctx, ListQuery{
		Search: "RASCUNHO",
		Page:   pagination.Normalize(pagination.Params{}),
	})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != draft.ID {
		t.Fatalf("search mismatch: total=%d rows=%d", total, len(rows))
	}
}

func TestIncrementViewsConcurrent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection serializes writers the way postgres row locks would.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Post{}, &models.PostCategory{}, &models.PostTag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewRepository(db)
	ctx := context.Background()

	post := seedPost(t, repo, "festival-de-inverno", nil, nil)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- repo.IncrementViews(ctx, post.ID)
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	got, err := repo.FindByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Views != 2 {
		t.Fatalf("expected 2 views after concurrent increments, got %d", got.Views)
	}
}
