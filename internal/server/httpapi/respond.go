package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/profilely/internal/common"
)

const (
	msgBadBearer     = "Could not validate credentials"
	msgBadLogin      = "Incorrect email or password"
	msgConflict      = "user with same email already registered"
	msgNotFound      = "user not found"
	msgLinkInvalid   = "link has expired or invalid"
	msgForbidden     = "Permission Denied"
	msgInternal      = "internal server error"
	msgCreated       = "profile created, a verification link has been send to your registered email"
	msgVerified      = "account verified, now you can login"
	msgResetMailSent = "A mail has been send to reset your password"
	msgPasswordReset = "your password has been reset successfully"
)

type detailResponse struct {
	Detail any `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

// writeError maps a service error onto its status code. Unknown errors are
// logged and answered with a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		writeDetail(w, http.StatusUnprocessableEntity, ve.Fields)
	case errors.Is(err, common.ErrConflict):
		writeDetail(w, http.StatusBadRequest, msgConflict)
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, common.ErrLinkInvalid):
		writeDetail(w, http.StatusBadRequest, msgLinkInvalid)
	case errors.Is(err, common.ErrInvalidCredential):
		unauthorized(w, msgBadBearer)
	case errors.Is(err, common.ErrorForbidden):
		writeDetail(w, http.StatusForbidden, msgForbidden)
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternal)
	}
}
