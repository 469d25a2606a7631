package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/profilely/internal/common"
	"github.com/dmitrijs2005/profilely/internal/dbx"
	"github.com/dmitrijs2005/profilely/internal/server/models"
	"github.com/dmitrijs2005/profilely/internal/server/notify"
	"github.com/dmitrijs2005/profilely/internal/server/repositories/accounts"
)

// fakeAccounts is an in-memory accounts.Repository. Every mutation moves
// updated_at forward, like clock_timestamp() does.
type fakeAccounts struct {
	mu     sync.Mutex
	rows   map[int64]*models.Account
	nextID int64
	clock  time.Time

	// err, when set, is returned by every method
	err error
	// createErr, when set, is returned by Create only
	createErr error
	// afterExistsByEmail, when set, runs after ExistsByEmail has released the lock
	afterExistsByEmail func()

	deleteCalls int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		rows:  map[int64]*models.Account{},
		clock: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

var _ accounts.Repository = (*fakeAccounts)(nil)

func (f *fakeAccounts) tick() time.Time {
	f.clock = f.clock.Add(time.Millisecond)
	return f.clock
}

func (f *fakeAccounts) byEmail(email string) *models.Account {
	for _, a := range f.rows {
		if a.Email == email {
			return a
		}
	}
	return nil
}

func clone(a *models.Account) *models.Account {
	c := *a
	return &c
}

func (f *fakeAccounts) ExistsByEmail(_ context.Context, email string, verifiedOnly bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	a := f.byEmail(email)
	exists := a != nil && (a.IsVerified || !verifiedOnly)
	if f.afterExistsByEmail != nil {
		f.mu.Unlock()
		f.afterExistsByEmail()
		f.mu.Lock()
	}
	return exists, nil
}

func (f *fakeAccounts) ExistsByID(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	a, ok := f.rows[id]
	return ok && a.IsVerified, nil
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.byEmail(a.Email) != nil {
		return nil, common.ErrConflict
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = f.tick()
	a.UpdatedAt = a.CreatedAt
	f.rows[a.ID] = clone(a)
	return a, nil
}

func (f *fakeAccounts) get(match func(*models.Account) bool) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.rows {
		if match(a) {
			return clone(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) GetVerifiedByEmail(_ context.Context, email string) (*models.Account, error) {
	return f.get(func(a *models.Account) bool { return a.Email == email && a.IsVerified })
}

func (f *fakeAccounts) GetContext(_ context.Context, email string, _ bool) (*models.Account, error) {
	return f.get(func(a *models.Account) bool { return a.Email == email })
}

func (f *fakeAccounts) GetPublic(_ context.Context, id int64) (*models.Account, error) {
	return f.get(func(a *models.Account) bool { return a.ID == id && a.IsVerified })
}

func (f *fakeAccounts) GetFull(_ context.Context, id int64) (*models.Account, error) {
	return f.get(func(a *models.Account) bool { return a.ID == id })
}

func (f *fakeAccounts) list(match func(*models.Account) bool) ([]*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Account{}
	for id := int64(1); id <= f.nextID; id++ {
		if a, ok := f.rows[id]; ok && match(a) {
			out = append(out, clone(a))
		}
	}
	return out, nil
}

func (f *fakeAccounts) ListPublic(_ context.Context, excludeID int64) ([]*models.Account, error) {
	return f.list(func(a *models.Account) bool { return a.ID != excludeID && a.IsVerified })
}

func (f *fakeAccounts) ListAll(_ context.Context, excludeID int64) ([]*models.Account, error) {
	return f.list(func(a *models.Account) bool { return a.ID != excludeID })
}

func (f *fakeAccounts) mutate(match func(*models.Account) bool, apply func(*models.Account)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, a := range f.rows {
		if match(a) {
			apply(a)
			a.UpdatedAt = f.tick()
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeAccounts) MarkVerified(_ context.Context, email string, expected time.Time) error {
	return f.mutate(
		func(a *models.Account) bool { return a.Email == email && !a.IsVerified && a.UpdatedAt.Equal(expected) },
		func(a *models.Account) { a.IsVerified = true },
	)
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, email, hash string, expected *time.Time) error {
	return f.mutate(
		func(a *models.Account) bool {
			return a.Email == email && a.IsVerified && (expected == nil || a.UpdatedAt.Equal(*expected))
		},
		func(a *models.Account) { a.PasswordHash = hash },
	)
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, email string, upd models.ProfileUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	return f.mutate(
		func(a *models.Account) bool { return a.Email == email && a.IsVerified },
		func(a *models.Account) {
			if upd.FirstName != nil {
				a.FirstName = *upd.FirstName
			}
			if upd.LastName != nil {
				a.LastName = *upd.LastName
			}
			if upd.Bio != nil {
				a.Bio = upd.Bio
			}
		},
	)
}

func (f *fakeAccounts) DeleteVerified(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleteCalls++
	a, ok := f.rows[id]
	if !ok || !a.IsVerified {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

// row returns the stored account or nil.
func (f *fakeAccounts) row(email string) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.byEmail(email); a != nil {
		return clone(a)
	}
	return nil
}

type fakeRepoManager struct {
	accounts *fakeAccounts
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) RollbackMigration(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository            { return m.accounts }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *fakeNotifier) Notify(_ context.Context, msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *fakeNotifier) last() notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return notify.Message{}
	}
	return n.sent[len(n.sent)-1]
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}
