// Package services contains server-side business logic. AccountService owns
// the identity and credential lifecycle: registration, email verification,
// login, password resets, profile edits and deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/profilely/internal/common"
	"github.com/dmitrijs2005/profilely/internal/cryptox"
	"github.com/dmitrijs2005/profilely/internal/dbx"
	"github.com/dmitrijs2005/profilely/internal/logging"
	"github.com/dmitrijs2005/profilely/internal/server/links"
	"github.com/dmitrijs2005/profilely/internal/server/models"
	"github.com/dmitrijs2005/profilely/internal/server/notify"
	"github.com/dmitrijs2005/profilely/internal/server/repositories/repomanager"
)

// Paths the emailed links point at.
const (
	VerifyPath      = "/user/verify"
	ResetFormPath   = "/user/send-template"
	ResetSubmitPath = "/user/reset-forgot-password"
)

// TokenIssuer signs and checks bearer tokens.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	tokens      TokenIssuer
	links       *links.Builder
	notifier    notify.Notifier
	baseURL     string
	log         logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	hasher cryptox.Hasher,
	tokens TokenIssuer,
	notifier notify.Notifier,
	baseURL string,
	log logging.Logger,
) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		links:       links.NewBuilder(hasher),
		notifier:    notifier,
		baseURL:     baseURL,
		log:         log.With("component", "accounts"),
	}
}

// Register creates an unverified account and mails it a verification link.
func (s *AccountService) Register(ctx context.Context, in models.AccountInput) error {
	if err := validateAccountInput(&in); err != nil {
		return err
	}

	repo := s.repomanager.Accounts(s.db)

	exists, err := repo.ExistsByEmail(ctx, in.Email, false)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrConflict
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// the unique index settles concurrent registrations
	a, err := repo.Create(ctx, &models.Account{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Bio:          in.Bio,
	})
	if err != nil {
		return err
	}

	if err := s.sendLink(ctx, a, notify.SubjectAccountVerification, notify.TemplateVerifyEmail, VerifyPath); err != nil {
		return err
	}

	s.log.Info(ctx, "account registered", "account_id", a.ID)
	return nil
}

func (s *AccountService) sendLink(ctx context.Context, a *models.Account, subject, template, path string) error {
	p, err := s.links.Payload(a.Context())
	if err != nil {
		return fmt.Errorf("build link: %w", err)
	}

	s.notifier.Notify(ctx, notify.Message{
		Subject:  subject,
		To:       a.Email,
		Template: template,
		Params: map[string]any{
			"token":      p.Integrity,
			"data":       p.Identity,
			"link":       links.URL(s.baseURL, path, p),
			"first_name": a.FirstName,
		},
	})
	return nil
}

// VerifyAccount consumes a verification link. Any failure, including an
// unknown account or a link that was already used, is ErrLinkInvalid.
func (s *AccountService) VerifyAccount(ctx context.Context, identity, integrity string) error {
	email, err := s.links.Email(strings.TrimSpace(identity))
	if err != nil {
		return common.ErrLinkInvalid
	}
	email = strings.TrimSpace(email)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		a, err := repo.GetContext(ctx, email, true)
		if err != nil {
			return linkLookupError(err)
		}
		if a.IsVerified || !s.links.Matches(a.Context(), integrity) {
			return common.ErrLinkInvalid
		}
		return linkLookupError(repo.MarkVerified(ctx, email, a.UpdatedAt))
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "account verified", "email", email)
	return nil
}

// linkLookupError hides whether an account exists behind ErrLinkInvalid.
func linkLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrLinkInvalid
	}
	return err
}

// Authenticate checks a password against a verified account. Unknown,
// unverified and mismatched are all ErrInvalidCredential.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.repomanager.Accounts(s.db).GetVerifiedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same work as a real check
			s.hasher.Verify(password, s.dummyDigest())
			return nil, common.ErrInvalidCredential
		}
		return nil, err
	}
	if !s.hasher.Verify(password, a.PasswordHash) {
		return nil, common.ErrInvalidCredential
	}
	return a, nil
}

func (s *AccountService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password-0")
	})
	return s.dummyHash
}

// Login authenticates and issues a bearer token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Token, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	tok, err := s.tokens.Issue(a.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info(ctx, "login", "account_id", a.ID)
	return &Token{AccessToken: tok, TokenType: common.TokenTypeBearer}, nil
}

// ResolveBearer maps a bearer token to its verified account.
func (s *AccountService) ResolveBearer(ctx context.Context, token string) (*models.Account, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return nil, common.ErrInvalidCredential
	}
	a, err := s.repomanager.Accounts(s.db).GetVerifiedByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredential
		}
		return nil, err
	}
	return a, nil
}

// GetCurrentUser returns the self projection of a verified account.
func (s *AccountService) GetCurrentUser(ctx context.Context, email string) (models.AccountView, error) {
	a, err := s.repomanager.Accounts(s.db).GetVerifiedByEmail(ctx, email)
	if err != nil {
		return models.AccountView{}, err
	}
	return models.SelfView(a), nil
}

// ListUsers lists every visible account except excludeID. Superusers see
// all accounts in full, everyone else sees verified accounts' public fields.
func (s *AccountService) ListUsers(ctx context.Context, excludeID int64, requesterIsSuper bool) ([]models.AccountView, error) {
	repo := s.repomanager.Accounts(s.db)

	list, view := repo.ListPublic, models.PublicView
	if requesterIsSuper {
		list, view = repo.ListAll, models.FullView
	}

	accounts, err := list(ctx, excludeID)
	if err != nil {
		return nil, err
	}
	out := make([]models.AccountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, view(a))
	}
	return out, nil
}

// GetUser returns one account under the same visibility as ListUsers.
func (s *AccountService) GetUser(ctx context.Context, id int64, requesterIsSuper bool) (models.AccountView, error) {
	repo := s.repomanager.Accounts(s.db)

	if requesterIsSuper {
		a, err := repo.GetFull(ctx, id)
		if err != nil {
			return models.AccountView{}, err
		}
		return models.FullView(a), nil
	}

	a, err := repo.GetPublic(ctx, id)
	if err != nil {
		return models.AccountView{}, err
	}
	return models.PublicView(a), nil
}

// ForgotPassword mails a reset link to a verified account.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	a, err := s.repomanager.Accounts(s.db).GetVerifiedByEmail(ctx, email)
	if err != nil {
		return err
	}

	return s.sendLink(ctx, a, notify.SubjectForgotPassword, notify.TemplateForgotPassword, ResetFormPath)
}

// VerifyAndResetPassword consumes a reset link and stores newPassword.
func (s *AccountService) VerifyAndResetPassword(ctx context.Context, identity, integrity, newPassword string) error {
	email, err := s.links.Email(strings.TrimSpace(identity))
	if err != nil {
		return common.ErrLinkInvalid
	}
	email = strings.TrimSpace(email)

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		a, err := repo.GetContext(ctx, email, true)
		if err != nil {
			return linkLookupError(err)
		}
		if !a.IsVerified || !s.links.Matches(a.Context(), integrity) {
			return common.ErrLinkInvalid
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		expected := a.UpdatedAt
		return linkLookupError(repo.UpdatePassword(ctx, email, hash, &expected))
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "password reset via link", "email", email)
	return nil
}

// ResetPassword replaces the password of an authenticated account.
func (s *AccountService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repomanager.Accounts(s.db).UpdatePassword(ctx, email, hash, nil)
}

// UpdateProfile applies the supplied name and bio fields. An empty update
// does nothing.
func (s *AccountService) UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	if err := validateProfileUpdate(&upd); err != nil {
		return err
	}
	return s.repomanager.Accounts(s.db).UpdateProfile(ctx, email, upd)
}

// CanDelete reports whether requester may delete targetID.
func CanDelete(requester *models.Account, targetID int64) bool {
	return requester != nil && (requester.IsSuperuser || requester.ID == targetID)
}

// DeleteAccount hard-deletes a verified account.
func (s *AccountService) DeleteAccount(ctx context.Context, targetID int64, requesterHasPermission bool) error {
	if !requesterHasPermission {
		return common.ErrorForbidden
	}

	repo := s.repomanager.Accounts(s.db)

	exists, err := repo.ExistsByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrorNotFound
	}
	if err := repo.DeleteVerified(ctx, targetID); err != nil {
		return err
	}
	s.log.Info(ctx, "account deleted", "account_id", targetID)
	return nil
}

// CreateSuperuser creates a verified superuser without sending any email.
func (s *AccountService) CreateSuperuser(ctx context.Context, in models.AccountInput) (*models.Account, error) {
	if err := validateAccountInput(&in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)

	exists, err := repo.ExistsByEmail(ctx, in.Email, false)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrConflict
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a, err := repo.Create(ctx, &models.Account{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Bio:          in.Bio,
		IsSuperuser:  true,
		IsVerified:   true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "superuser created", "account_id", a.ID)
	return a, nil
}
