package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/profilely/internal/common"
	"github.com/dmitrijs2005/profilely/internal/server/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// authenticate resolves the bearer token into the calling account.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			unauthorized(w, msgBadBearer)
			return
		}

		a, err := s.accounts.ResolveBearer(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrInvalidCredential) {
				unauthorized(w, msgBadBearer)
				return
			}
			s.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, a)))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// principal is only valid behind authenticate.
func principal(r *http.Request) *models.Account {
	a, _ := r.Context().Value(principalKey).(*models.Account)
	return a
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	writeDetail(w, http.StatusUnauthorized, detail)
}
