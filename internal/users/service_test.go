package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
	"github.com/viamunicipal/cms-backend/pkg/security"
)

func testPasswordCfg() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func baseUser() *models.User {
	now := time.Now()
	return &models.User{
		ID:           uuid.New(),
		Email:        "ana@prefeitura.gov.br",
		Name:         "Ana Souza",
		PasswordHash: "$argon2id$...",
		Role:         enums.UserRoleEditor,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type stubUserRepo struct {
	user          *models.User
	findErr       error
	emailErr      error
	createErr     error
	updateErr     error
	deactivateErr error
	created       *CreateUserDTO
	updated       *models.User
	newHash       string
	deactivatedID uuid.UUID
	listRows      []models.User
	listTotal     int64
	listErr       error
	gotListQuery  ListQuery
}

func (s *stubUserRepo) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &dto
	return dto.ToModel(), nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.emailErr != nil {
		return nil, s.emailErr
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	s.gotListQuery = q
	return s.listRows, s.listTotal, s.listErr
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = user
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.newHash = hash
	return nil
}

func (s *stubUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if s.deactivateErr != nil {
		return s.deactivateErr
	}
	s.deactivatedID = id
	return nil
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil, testPasswordCfg()); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	repo := &stubUserRepo{emailErr: gorm.ErrRecordNotFound}
	svc, err := NewService(repo, testPasswordCfg())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateUserInput{
		Email:    " Ana@Prefeitura.GOV.br ",
		Name:     "Ana Souza",
		Password: "s3nha-forte",
		Role:     enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if dto.Email != "ana@prefeitura.gov.br" {
		t.Fatalf("expected normalized email, got %s", dto.Email)
	}
	if dto.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", dto.Role)
	}
	if !dto.Active {
		t.Fatal("expected account active by default")
	}
	if repo.created == nil {
		t.Fatal("expected repo create call")
	}
	ok, err := security.VerifyPassword("s3nha-forte", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestServiceCreateDuplicateEmail(t *testing.T) {
	repo := &stubUserRepo{user: baseUser()}
	svc, _ := NewService(repo, testPasswordCfg())

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "ana@prefeitura.gov.br",
		Name:     "Ana Souza",
		Password: "qualquer",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateInvalidEmail(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{}, testPasswordCfg())

	_, err := svc.Create(context.Background(), CreateUserInput{Email: "not-an-email", Name: "x", Password: "p"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	repo := &stubUserRepo{findErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo, testPasswordCfg())

	_, err := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateFields(t *testing.T) {
	user := baseUser()
	repo := &stubUserRepo{user: user}
	svc, _ := NewService(repo, testPasswordCfg())

	name := "Ana Paula Souza"
	role := enums.UserRoleViewer
	inactive := false
	dto, err := svc.Update(context.Background(), user.ID, UpdateUserInput{
		Name:   &name,
		Role:   &role,
		Active: &inactive,
	})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if dto.Name != name {
		t.Fatalf("expected name %q got %q", name, dto.Name)
	}
	if dto.Role != enums.UserRoleViewer {
		t.Fatalf("unexpected role %s", dto.Role)
	}
	if dto.Active {
		t.Fatal("expected account deactivated")
	}
	if repo.updated == nil {
		t.Fatal("expected repo update call")
	}
}

func TestServiceUpdatePassword(t *testing.T) {
	user := baseUser()
	repo := &stubUserRepo{user: user}
	svc, _ := NewService(repo, testPasswordCfg())

	newPassword := "nova-s3nha"
	if _, err := svc.Update(context.Background(), user.ID, UpdateUserInput{Password: &newPassword}); err != nil {
		t.Fatalf("update user: %v", err)
	}
	if repo.newHash == "" {
		t.Fatal("expected password hash to be replaced")
	}
	ok, err := security.VerifyPassword(newPassword, repo.newHash)
	if err != nil || !ok {
		t.Fatalf("new hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestServiceUpdateInvalidRole(t *testing.T) {
	repo := &stubUserRepo{user: baseUser()}
	svc, _ := NewService(repo, testPasswordCfg())

	bad := enums.UserRole("root")
	_, err := svc.Update(context.Background(), uuid.New(), UpdateUserInput{Role: &bad})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceDeactivateNotFound(t *testing.T) {
	repo := &stubUserRepo{deactivateErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo, testPasswordCfg())

	err := svc.Deactivate(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceDeactivateSuccess(t *testing.T) {
	repo := &stubUserRepo{}
	svc, _ := NewService(repo, testPasswordCfg())

	id := uuid.New()
	if err := svc.Deactivate(context.Background(), id); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.deactivatedID != id {
		t.Fatalf("expected deactivate call for %s, got %s", id, repo.deactivatedID)
	}
}

func TestServiceListNormalizesPage(t *testing.T) {
	repo := &stubUserRepo{listRows: []models.User{*baseUser()}, listTotal: 1}
	svc, _ := NewService(repo, testPasswordCfg())

	rows, total, err := svc.List(context.Background(), ListUsersInput{
		Search: "  ana ",
		Role:   enums.UserRoleEditor,
		Page:   pagination.Params{Skip: -5, Take: 0},
	})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("unexpected result total=%d rows=%d", total, len(rows))
	}
	if repo.gotListQuery.Page.Skip != 0 || repo.gotListQuery.Page.Take != pagination.DefaultTake {
		t.Fatalf("expected normalized page, got %+v", repo.gotListQuery.Page)
	}
	if repo.gotListQuery.Search != "ana" {
		t.Fatalf("expected trimmed search, got %q", repo.gotListQuery.Search)
	}
}

func TestServiceListInvalidRoleFilter(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{}, testPasswordCfg())

	_, _, err := svc.List(context.Background(), ListUsersInput{Role: enums.UserRole("root")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceListDependencyError(t *testing.T) {
	repo := &stubUserRepo{listErr: errors.New("boom")}
	svc, _ := NewService(repo, testPasswordCfg())

	_, _, err := svc.List(context.Background(), ListUsersInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
