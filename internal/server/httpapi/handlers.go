package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/profilely/internal/common"
	"github.com/dmitrijs2005/profilely/internal/server/models"
	"github.com/dmitrijs2005/profilely/internal/server/notify"
	"github.com/dmitrijs2005/profilely/internal/server/services"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var in models.AccountInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.Register(r.Context(), in); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"success": msgCreated})
}

func (s *Server) verifyAccount(w http.ResponseWriter, r *http.Request) {
	v, err := queryValues(r, "token", "data")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.VerifyAccount(r.Context(), v[1], v[0]); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeDetail(w, http.StatusOK, msgVerified)
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login takes an OAuth2 password form; a JSON body works too.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email, password, err := loginFields(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tok, err := s.accounts.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredential) {
			unauthorized(w, msgBadLogin)
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tok)
}

func loginFields(w http.ResponseWriter, r *http.Request) (string, string, error) {
	if !isJSON(r) {
		v, err := formValues(r, "username", "password")
		if err != nil {
			return "", "", err
		}
		return v[0], v[1], nil
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return "", "", err
	}
	if req.Username == "" {
		req.Username = req.Email
	}
	fields := map[string]string{"username": req.Username, "password": req.Password}
	v, err := requireValues([]string{"username", "password"}, func(f string) string { return fields[f] })
	if err != nil {
		return "", "", err
	}
	return v[0], v[1], nil
}

func (s *Server) getSelf(w http.ResponseWriter, r *http.Request) {
	v, err := s.accounts.GetCurrentUser(r.Context(), principal(r).Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// listAccounts returns every visible account followed by the caller.
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	me := principal(r)

	list, err := s.accounts.ListUsers(r.Context(), me.ID, me.IsSuperuser)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, append(list, models.SelfView(me)))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	me := principal(r)
	if id == me.ID {
		writeJSON(w, http.StatusOK, models.SelfView(me))
		return
	}

	v, err := s.accounts.GetUser(r.Context(), id, me.IsSuperuser)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) updateSelf(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.UpdateProfile(r.Context(), principal(r).Email, upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.DeleteAccount(r.Context(), id, services.CanDelete(principal(r), id)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	email, err := decodeScalarOrField(w, r, "email")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.ForgotPassword(r.Context(), email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDetail(w, http.StatusOK, msgResetMailSent)
}

func (s *Server) resetViaLink(w http.ResponseWriter, r *http.Request) {
	v, err := formValues(r, "token", "data", "new_password")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.VerifyAndResetPassword(r.Context(), v[1], v[0], v[2]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDetail(w, http.StatusOK, msgPasswordReset)
}

func (s *Server) resetAuthenticated(w http.ResponseWriter, r *http.Request) {
	password, err := decodeScalarOrField(w, r, "password")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.ResetPassword(r.Context(), principal(r).Email, password); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDetail(w, http.StatusOK, msgPasswordReset)
}

// resetForm serves the page the forgot-password mail links to. It only
// echoes the link values; they are checked when the form is submitted.
func (s *Server) resetForm(w http.ResponseWriter, r *http.Request) {
	v, err := queryValues(r, "token", "data")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	html, err := s.pages.Render(notify.TemplateChangePassword, map[string]any{
		"token":  v[0],
		"data":   v[1],
		"action": services.ResetSubmitPath,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
