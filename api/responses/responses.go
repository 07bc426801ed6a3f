package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/viamunicipal/cms-backend/pkg/errors"
	"github.com/viamunicipal/cms-backend/pkg/logger"
	"github.com/viamunicipal/cms-backend/pkg/types"
)

// WriteSuccess writes a 200 envelope around the payload.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

// WriteSuccessStatus writes a success envelope with an explicit status code.
func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteList writes a paginated collection with its total count.
func WriteList[T any](w http.ResponseWriter, data []T, total int64) {
	if data == nil {
		data = []T{}
	}
	writeJSON(w, http.StatusOK, types.ListEnvelope[T]{Data: data, Total: total})
}

// WriteError maps a coded error onto its HTTP status and body. Messages for
// client-caused failures pass through; server-side failures get the generic
// public message so internals never leak.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	appErr := pkgerrors.As(err)
	meta := pkgerrors.MetadataFor(appErr.Code())

	message := meta.PublicMessage
	switch appErr.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeRateLimit:
		if appErr.Message() != "" {
			message = appErr.Message()
		}
	}

	if logg != nil {
		if meta.HTTPStatus >= http.StatusInternalServerError {
			dump := pkgerrors.Dump(err)
			fields := map[string]any{
				"error_code":  string(dump.Code),
				"error_chain": dump.Chain,
			}
			if dump.PGCode != "" {
				fields["pg_code"] = dump.PGCode
				fields["pg_message"] = dump.PGMessage
				fields["pg_detail"] = dump.PGDetail
				fields["pg_table"] = dump.PGTable
				fields["pg_column"] = dump.PGColumn
				fields["pg_constraint"] = dump.PGConstraint
			}
			logg.Error(logg.WithFields(ctx, fields), "request.failed", err)
		} else {
			ctx = logg.WithField(ctx, "error_code", string(appErr.Code()))
			logg.Warn(ctx, "request.rejected")
		}
	}

	body := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(appErr.Code()),
			Message: message,
		},
	}
	if details := appErr.Details(); details != nil && meta.DetailsAllowed {
		body.Error.Details = details
	}
	writeJSON(w, meta.HTTPStatus, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
