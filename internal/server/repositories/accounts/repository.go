// Package accounts persists user accounts.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/profilely/internal/server/models"
)

// Repository is bound to a dbx.DBTX, so the same methods work on a plain
// connection and inside a transaction.
//
// Lookups that find nothing return common.ErrorNotFound, as do conditional
// updates that match no row. Other failures are *common.PersistenceError.
type Repository interface {
	ExistsByEmail(ctx context.Context, email string, verifiedOnly bool) (bool, error)
	// ExistsByID only considers verified accounts.
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Create inserts a and fills its ID and timestamps. A duplicate email is
	// common.ErrConflict.
	Create(ctx context.Context, a *models.Account) (*models.Account, error)
	GetVerifiedByEmail(ctx context.Context, email string) (*models.Account, error)
	// GetContext loads the account in any state. With forUpdate the row is
	// locked until the surrounding transaction ends.
	GetContext(ctx context.Context, email string, forUpdate bool) (*models.Account, error)
	// ListPublic returns verified accounts except excludeID.
	ListPublic(ctx context.Context, excludeID int64) ([]*models.Account, error)
	// ListAll returns accounts in any state except excludeID.
	ListAll(ctx context.Context, excludeID int64) ([]*models.Account, error)
	// GetPublic finds a verified account by id.
	GetPublic(ctx context.Context, id int64) (*models.Account, error)
	// GetFull finds an account in any state by id.
	GetFull(ctx context.Context, id int64) (*models.Account, error)
	// MarkVerified succeeds only while updated_at still equals expectedUpdatedAt.
	MarkVerified(ctx context.Context, email string, expectedUpdatedAt time.Time) error
	// UpdatePassword targets verified accounts. A non-nil expectedUpdatedAt
	// makes the update conditional on it.
	UpdatePassword(ctx context.Context, email, hash string, expectedUpdatedAt *time.Time) error
	UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) error
	DeleteVerified(ctx context.Context, id int64) error
}
