package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/outbox"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
	"github.com/viamunicipal/cms-backend/pkg/slug"
)

type postRepository interface {
	Create(ctx context.Context, post *models.Post, categoryIDs, tagIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, q ListQuery) ([]models.Post, int64, error)
	CategoryIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
	TagIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
	UpdateWithTx(tx *gorm.DB, post *models.Post) error
	ReplaceCategoriesWithTx(tx *gorm.DB, postID uuid.UUID, categoryIDs []uuid.UUID) error
	ReplaceTagsWithTx(tx *gorm.DB, postID uuid.UUID, tagIDs []uuid.UUID) error
	Publish(tx *gorm.DB, id uuid.UUID, at time.Time) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes news post operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]PostDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PostDTO, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*PostDTO, error)
	Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*PostDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*PostDTO, error)
	Publish(ctx context.Context, id, actorID uuid.UUID) (*PostDTO, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   postRepository
	events outboxEmitter
	now    func() time.Time
}

// NewService builds a post service. The outbox emitter is optional; without
// it publish events are simply not recorded.
func NewService(repo postRepository, events outboxEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("post repository required")
	}
	return &service{repo: repo, events: events, now: time.Now}, nil
}

// ListInput filters the post listing.
type ListInput struct {
	Search        string
	Status        enums.ContentStatus
	PublishedOnly bool
	Page          pagination.Params
}

// CreatePostInput captures creation-time post data.
type CreatePostInput struct {
	Title       string
	Excerpt     *string
	Body        string
	CoverURL    *string
	Status      enums.ContentStatus
	CategoryIDs []uuid.UUID
	TagIDs      []uuid.UUID
}

// UpdatePostInput captures the mutable post fields. Nil relation lists leave
// the joins untouched; empty lists clear them.
type UpdatePostInput struct {
	Title       *string
	Excerpt     *string
	Body        *string
	CoverURL    *string
	Status      *enums.ContentStatus
	CategoryIDs *[]uuid.UUID
	TagIDs      *[]uuid.UUID
}

type postPublishedPayload struct {
	PostID      uuid.UUID `json:"post_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

func (s *service) List(ctx context.Context, input ListInput) ([]PostDTO, int64, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, total, err := s.repo.List(ctx, ListQuery{
		Search:        strings.TrimSpace(input.Search),
		Status:        input.Status,
		PublishedOnly: input.PublishedOnly,
		Page:          pagination.Normalize(input.Page),
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}

	out := make([]PostDTO, 0, len(rows))
	for i := range rows {
		dto, err := s.withRelations(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *dto)
	}
	return out, total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*PostDTO, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withRelations(ctx, post)
}

func (s *service) GetBySlug(ctx context.Context, slugValue string, publishedOnly bool) (*PostDTO, error) {
	post, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	// Unpublished slugs must stay invisible to the portal.
	if publishedOnly && post.Status != enums.ContentStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return s.withRelations(ctx, post)
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*PostDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}
	status := input.Status
	if status == "" {
		status = enums.ContentStatusDraft
	}
	if !status.IsValidForContent() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	derived := slug.Make(title)
	if derived == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title yields empty slug")
	}
	if _, err := s.repo.FindBySlug(ctx, derived); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}

	post := &models.Post{
		ID:       uuid.New(),
		Title:    title,
		Slug:     derived,
		Excerpt:  input.Excerpt,
		Body:     input.Body,
		CoverURL: input.CoverURL,
		Status:   status,
		AuthorID: authorID,
	}
	if status == enums.ContentStatusPublished {
		at := s.now()
		post.PublishedAt = &at
	}

	if err := s.repo.Create(ctx, post, input.CategoryIDs, input.TagIDs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
	}
	return FromModel(post, input.CategoryIDs, input.TagIDs), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*PostDTO, error) {
	// Existence check precedes the write transaction; a concurrent delete in
	// between surfaces as a dependency error from the update itself.
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Excerpt != nil {
		post.Excerpt = input.Excerpt
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
		}
		post.Body = *input.Body
	}
	if input.CoverURL != nil {
		post.CoverURL = input.CoverURL
	}
	if input.Status != nil {
		if !input.Status.IsValidForContent() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		post.Status = *input.Status
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpdateWithTx(tx, post); err != nil {
			return err
		}
		if input.CategoryIDs != nil {
			if err := s.repo.ReplaceCategoriesWithTx(tx, post.ID, *input.CategoryIDs); err != nil {
				return err
			}
		}
		if input.TagIDs != nil {
			if err := s.repo.ReplaceTagsWithTx(tx, post.ID, *input.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
	}

	return s.withRelations(ctx, post)
}

// Publish is a convenience shortcut: it stamps published status and
// published_at without validating the prior state.
func (s *service) Publish(ctx context.Context, id, actorID uuid.UUID) (*PostDTO, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.now()
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Publish(tx, post.ID, at); err != nil {
			return err
		}
		if s.events == nil {
			return nil
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPostPublished,
			AggregateType: enums.AggregatePost,
			AggregateID:   post.ID,
			Actor:         &outbox.ActorRef{UserID: actorID},
			Data: postPublishedPayload{
				PostID:      post.ID,
				Slug:        post.Slug,
				Title:       post.Title,
				PublishedAt: at,
			},
			Version:    1,
			OccurredAt: at,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish post")
	}

	post.Status = enums.ContentStatusPublished
	post.PublishedAt = &at
	return s.withRelations(ctx, post)
}

func (s *service) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment views")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	return nil
}

func (s *service) loadPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return post, nil
}

func (s *service) withRelations(ctx context.Context, post *models.Post) (*PostDTO, error) {
	categoryIDs, err := s.repo.CategoryIDs(ctx, post.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post categories")
	}
	tagIDs, err := s.repo.TagIDs(ctx, post.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post tags")
	}
	return FromModel(post, categoryIDs, tagIDs), nil
}
