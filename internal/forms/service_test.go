package forms

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viamunicipal/cms-backend/pkg/db/models"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/outbox"
	"github.com/viamunicipal/cms-backend/pkg/pagination"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

type stubFormRepo struct {
	form    *models.Form
	bySlug  *models.Form
	created *models.Form
	updated *models.Form

	insertedSubmission  *models.FormSubmission
	submissions         []models.FormSubmission
	deleteErr           error
	deleteSubmissionErr error
	transactionCalls    int
}

func (s *stubFormRepo) Create(_ context.Context, form *models.Form) error {
	s.created = form
	return nil
}

func (s *stubFormRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Form, error) {
	if s.form == nil || s.form.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.form, nil
}

func (s *stubFormRepo) FindBySlug(_ context.Context, _ string) (*models.Form, error) {
	if s.bySlug == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.bySlug, nil
}

func (s *stubFormRepo) List(_ context.Context, _ ListQuery) ([]models.Form, int64, error) {
	return nil, 0, nil
}

func (s *stubFormRepo) Update(_ context.Context, form *models.Form) error {
	s.updated = form
	return nil
}

func (s *stubFormRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func (s *stubFormRepo) InsertSubmissionWithTx(_ *gorm.DB, submission *models.FormSubmission) error {
	s.insertedSubmission = submission
	return nil
}

func (s *stubFormRepo) ListSubmissions(_ context.Context, _ uuid.UUID, _ pagination.Params) ([]models.FormSubmission, int64, error) {
	return s.submissions, int64(len(s.submissions)), nil
}

func (s *stubFormRepo) DeleteSubmission(_ context.Context, _, _ uuid.UUID) error {
	return s.deleteSubmissionErr
}

func (s *stubFormRepo) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	s.transactionCalls++
	return fn(nil)
}

type stubEmitter struct {
	events []outbox.DomainEvent
}

func (s *stubEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func activeForm() *models.Form {
	return &models.Form{
		ID:       uuid.New(),
		Title:    "Fale Conosco",
		Slug:     "fale-conosco",
		Fields:   types.JSONDocument(`[{"name":"message","type":"textarea"}]`),
		Active:   true,
		AuthorID: uuid.New(),
	}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	te := pkgerrors.As(err)
	if te == nil || te.Code() != code {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func TestCreateRequiresValidFields(t *testing.T) {
	svc, err := NewService(&stubFormRepo{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateFormInput
	}{
		{"missing fields", CreateFormInput{Title: "Fale Conosco"}},
		{"broken fields json", CreateFormInput{Title: "Fale Conosco", Fields: types.JSONDocument(`{`)}},
		{"broken settings json", CreateFormInput{Title: "Fale Conosco", Fields: types.JSONDocument(`[]`), Settings: types.JSONDocument(`{`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, uuid.New(), tc.input)
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreateDerivesSlug(t *testing.T) {
	repo := &stubFormRepo{}
	svc, _ := NewService(repo, nil)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateFormInput{
		Title:  "Ouvidoria Municipal",
		Fields: types.JSONDocument(`[{"name":"relato","type":"textarea"}]`),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Slug != "ouvidoria-municipal" {
		t.Fatalf("unexpected slug: %s", dto.Slug)
	}
	if !dto.Active {
		t.Fatal("new forms start active")
	}
}

func TestSubmitRecordsSubmissionAndEmitsEvent(t *testing.T) {
	form := activeForm()
	repo := &stubFormRepo{form: form}
	emitter := &stubEmitter{}
	svc, _ := NewService(repo, emitter)

	ip := "203.0.113.7"
	dto, err := svc.Submit(context.Background(), form.ID, SubmitInput{
		Data:        types.JSONDocument(`{"message":"Buraco na rua"}`),
		SubmitterIP: &ip,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.FormID != form.ID {
		t.Fatalf("unexpected form id: %s", dto.FormID)
	}
	if repo.insertedSubmission == nil || repo.insertedSubmission.SubmitterIP == nil {
		t.Fatal("submission not inserted with ip")
	}
	if repo.transactionCalls != 1 {
		t.Fatalf("expected one transaction, got %d", repo.transactionCalls)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventFormSubmitted || event.AggregateType != enums.AggregateFormSubmission {
		t.Fatalf("unexpected event: %s %s", event.EventType, event.AggregateType)
	}
}

func TestSubmitRejectsInactiveForm(t *testing.T) {
	form := activeForm()
	form.Active = false
	repo := &stubFormRepo{form: form}
	svc, _ := NewService(repo, nil)

	_, err := svc.Submit(context.Background(), form.ID, SubmitInput{
		Data: types.JSONDocument(`{"message":"oi"}`),
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitUnknownFormNotFound(t *testing.T) {
	svc, _ := NewService(&stubFormRepo{}, nil)

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitInput{
		Data: types.JSONDocument(`{"message":"oi"}`),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitRejectsInvalidData(t *testing.T) {
	form := activeForm()
	repo := &stubFormRepo{form: form}
	svc, _ := NewService(repo, nil)

	_, err := svc.Submit(context.Background(), form.ID, SubmitInput{
		Data: types.JSONDocument(`{broken`),
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestListSubmissionsHidesSubmitterIP(t *testing.T) {
	form := activeForm()
	ip := "203.0.113.7"
	repo := &stubFormRepo{
		form: form,
		submissions: []models.FormSubmission{
			{ID: uuid.New(), FormID: form.ID, Data: types.JSONDocument(`{"a":1}`), SubmitterIP: &ip},
		},
	}
	svc, _ := NewService(repo, nil)

	rows, total, err := svc.ListSubmissions(context.Background(), form.ID, pagination.Params{})
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("unexpected result: total=%d rows=%d", total, len(rows))
	}
}

func TestDeleteSubmissionNotFound(t *testing.T) {
	repo := &stubFormRepo{deleteSubmissionErr: gorm.ErrRecordNotFound}
	svc, _ := NewService(repo, nil)

	err := svc.DeleteSubmission(context.Background(), uuid.New(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateTogglesActive(t *testing.T) {
	form := activeForm()
	repo := &stubFormRepo{form: form}
	svc, _ := NewService(repo, nil)

	inactive := false
	dto, err := svc.Update(context.Background(), form.ID, UpdateFormInput{Active: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Active {
		t.Fatal("active flag not applied")
	}
}

func TestGetBySlugHidesInactiveFromPortal(t *testing.T) {
	form := activeForm()
	form.Active = false
	repo := &stubFormRepo{bySlug: form}
	svc, _ := NewService(repo, nil)

	_, err := svc.GetBySlug(context.Background(), form.Slug, true)
	expectCode(t, err, pkgerrors.CodeNotFound)

	// The editorial surface still sees the deactivated form.
	got, err := svc.GetBySlug(context.Background(), form.Slug, false)
	if err != nil {
		t.Fatalf("get inactive without gate: %v", err)
	}
	if got.ID != form.ID {
		t.Fatalf("form id = %s", got.ID)
	}

	form.Active = true
	if _, err := svc.GetBySlug(context.Background(), form.Slug, true); err != nil {
		t.Fatalf("get active with gate: %v", err)
	}
}
