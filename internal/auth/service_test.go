package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/internal/users"
	pkgauth "github.com/viamunicipal/cms-backend/pkg/auth"
	"github.com/viamunicipal/cms-backend/pkg/config"
	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/security"
)

var (
	testJWTCfg = config.JWTConfig{
		Secret:            "secret",
		Issuer:            "cms",
		ExpirationMinutes: 60,
	}
	testPasswordCfg = config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
)

type stubUserRepo struct {
	user       *models.User
	emailErr   error
	createErr  error
	touchErr   error
	created    *users.CreateUserDTO
	touchedID  uuid.UUID
	touchCalls int
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

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &dto
	return dto.ToModel(), nil
}

func (s *stubUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.touchCalls++
	s.touchedID = id
	return s.touchErr
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        "editor@prefeitura.gov.br",
		Name:         "Equipe de Redação",
		PasswordHash: hash,
		Role:         enums.UserRoleEditor,
		Active:       true,
	}
}

func expectUnauthorized(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentials {
		t.Fatalf("expected uniform message %q, got %q", invalidCredentials, typed.Message())
	}
}

func TestLoginSuccess(t *testing.T) {
	user := activeUser(t, "s3nha-forte")
	repo := &stubUserRepo{user: user}
	svc, err := NewService(repo, testJWTCfg, testPasswordCfg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	session, err := svc.Login(context.Background(), LoginInput{
		Email:    " Editor@Prefeitura.GOV.br ",
		Password: "s3nha-forte",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected token")
	}
	if session.User == nil || session.User.ID != user.ID {
		t.Fatalf("unexpected session user: %+v", session.User)
	}
	if repo.touchCalls != 1 || repo.touchedID != user.ID {
		t.Fatalf("expected last-login stamp for %s", user.ID)
	}
	if session.User.LastLoginAt == nil {
		t.Fatal("expected last_login_at on session user")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTCfg, session.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleEditor {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{}, testJWTCfg, testPasswordCfg, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@x.gov", Password: "x"})
	expectUnauthorized(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &stubUserRepo{user: activeUser(t, "certa")}
	svc, _ := NewService(repo, testJWTCfg, testPasswordCfg, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "editor@prefeitura.gov.br", Password: "errada"})
	expectUnauthorized(t, err)
	if repo.touchCalls != 0 {
		t.Fatal("must not stamp last login on failed auth")
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "s3nha")
	user.Active = false
	svc, _ := NewService(&stubUserRepo{user: user}, testJWTCfg, testPasswordCfg, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "s3nha"})
	expectUnauthorized(t, err)
}

func TestLoginLastLoginStampFailureNotFatal(t *testing.T) {
	user := activeUser(t, "s3nha")
	repo := &stubUserRepo{user: user, touchErr: errors.New("deadlock")}
	svc, _ := NewService(repo, testJWTCfg, testPasswordCfg, nil)

	session, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "s3nha"})
	if err != nil {
		t.Fatalf("login should succeed despite stamp failure: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected token")
	}
}

func TestRegisterDefaultsToEditor(t *testing.T) {
	repo := &stubUserRepo{}
	svc, _ := NewService(repo, testJWTCfg, testPasswordCfg, nil)

	session, err := svc.Register(context.Background(), RegisterInput{
		Email:    "nova@prefeitura.gov.br",
		Name:     "Nova Conta",
		Password: "s3gura",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.User.Role != enums.UserRoleEditor {
		t.Fatalf("expected editor default, got %s", session.User.Role)
	}
	if repo.created == nil {
		t.Fatal("expected create call")
	}
	ok, err := security.VerifyPassword("s3gura", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterConflict(t *testing.T) {
	repo := &stubUserRepo{user: activeUser(t, "x")}
	svc, _ := NewService(repo, testJWTCfg, testPasswordCfg, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "editor@prefeitura.gov.br",
		Name:     "Duplicada",
		Password: "x",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := NewService(&stubUserRepo{}, testJWTCfg, testPasswordCfg, nil)

	cases := []RegisterInput{
		{Email: "sem-arroba", Name: "n", Password: "p"},
		{Email: "a@b.gov", Name: "  ", Password: "p"},
		{Email: "a@b.gov", Name: "n", Password: ""},
		{Email: "a@b.gov", Name: "n", Password: "p", Role: enums.UserRole("root")},
	}
	for i, input := range cases {
		_, err := svc.Register(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	repo := &stubUserRepo{user: activeUser(t, "certa")}
	svc, _ := NewService(repo, testJWTCfg, testPasswordCfg, nil)

	_, wrongPassword := svc.Login(context.Background(), LoginInput{Email: "editor@prefeitura.gov.br", Password: "errada"})
	_, unknownEmail := svc.Login(context.Background(), LoginInput{Email: "nobody@x.gov", Password: "errada"})

	if wrongPassword == nil || unknownEmail == nil {
		t.Fatal("both logins must fail")
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failure modes differ: %q vs %q", wrongPassword, unknownEmail)
	}
}
