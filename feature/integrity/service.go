package integrity

import (
	"context"
	"errors"

	"furniture-store/core/storage"
	"furniture-store/feature/account"
	"furniture-store/feature/integrity/checks"
	"furniture-store/feature/inventory"
	"furniture-store/feature/order"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by CheckServer when the store runs without a database.
var ErrNoDatabase = errors.New("database is not configured")

// ErrNoDirectory is returned by CheckCarts when no account directory was supplied.
var ErrNoDirectory = errors.New("account directory is not configured")

// Directory resolves registered accounts.
type Directory interface {
	Get(email string) (account.Profile, error)
}

// Models are the persisted records whose tables the server check inspects.
var Models = []any{
	inventory.FurnitureRecord{},
	order.OrderRecord{},
	order.OrderLineRecord{},
	account.UserRecord{},
}

// Service runs the integrity checks.
type Service struct {
	client storage.Client
	bucket string
	db     *gorm.DB
	users  Directory
	logger *zap.Logger
}

// NewService creates a new integrity service. db and users may be nil.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, users Directory) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		db:     db,
		users:  users,
		logger: logger,
	}
}

// CheckStructure returns the missing storage folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckServer compares the database schema with Models.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckServerIntegrity(s.db, Models...)
}

// CheckCarts lists saved carts left behind by deleted accounts.
func (s *Service) CheckCarts(ctx context.Context) ([]checks.OrphanedCart, error) {
	if s.users == nil {
		return nil, ErrNoDirectory
	}
	return checks.CheckCarts(ctx, s.client, s.bucket, func(email string) bool {
		_, err := s.users.Get(email)
		return err == nil
	})
}
