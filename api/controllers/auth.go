package controllers

import (
	"net/http"

	"github.com/viamunicipal/cms-backend/api/responses"
	"github.com/viamunicipal/cms-backend/api/validators"
	"github.com/viamunicipal/cms-backend/internal/auth"
	"github.com/viamunicipal/cms-backend/pkg/enums"
	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthLogin exchanges credentials for a bearer token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), auth.LoginInput{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,min=1"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin editor viewer"`
}

// AuthRegister provisions an account and logs it in. The role defaults to
// editor when omitted.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.UserRoleEditor
		if req.Role != nil {
			parsed, err := enums.ParseUserRole(*req.Role)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
				return
			}
			role = parsed
		}

		session, err := svc.Register(r.Context(), auth.RegisterInput{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
			Role:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}
