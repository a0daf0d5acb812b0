package cmd

import (
	"context"
	"fmt"
	"time"

	"furniture-store/core/config"
	"furniture-store/core/database"
	"furniture-store/core/storage"
	"furniture-store/feature/account"
	"furniture-store/feature/catalog"
	"furniture-store/feature/inventory"
	"furniture-store/feature/order"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// runtime is the shared state every command builds on.
type runtime struct {
	db        *gorm.DB
	inventory *inventory.Inventory
	book      *order.Book
}

// openDatabase connects when persistence is enabled. Failure is not fatal: the store
// keeps running in memory.
func openDatabase(cfg *config.Config, logg *zap.Logger) *gorm.DB {
	if !cfg.Database.Enabled {
		logg.Info("Database disabled, running in memory")
		return nil
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	return db
}

// loadState restores inventory, orders and users from db when present, subscribes the
// observers and, when seed is set, fills an empty inventory with the demo catalog.
// users may be nil for commands that do not need accounts.
func loadState(ctx context.Context, cfg *config.Config, logg *zap.Logger, db *gorm.DB, users *account.Registry, seed bool) (*runtime, error) {
	rt := &runtime{
		db:        db,
		inventory: inventory.New(logg),
		book:      order.NewBook(),
	}

	var (
		invStore   *inventory.Store
		orderStore *order.Store
		userStore  *account.Store
	)
	if db != nil {
		invStore = inventory.NewStore(db)
		orderStore = order.NewStore(db)
		userStore = account.NewStore(db)
		for _, m := range []interface{ Migrate() error }{invStore, orderStore, userStore} {
			if err := m.Migrate(); err != nil {
				return nil, err
			}
		}

		var (
			items       []catalog.Item
			orders      []*order.Order
			userRecords []account.User
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			items, err = invStore.LoadAll(gctx)
			return err
		})
		g.Go(func() (err error) {
			orders, err = orderStore.LoadAll(gctx)
			return err
		})
		if users != nil {
			g.Go(func() (err error) {
				userRecords, err = userStore.LoadAll(gctx)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("failed to restore state: %w", err)
		}

		rt.inventory.Load(items)
		rt.book.Load(orders)
		if users != nil {
			users.Load(userRecords)
		}
		logg.Info("State restored",
			zap.Int("items", len(items)),
			zap.Int("orders", len(orders)),
			zap.Int("users", len(userRecords)),
		)

		rt.inventory.Subscribe(invStore.Observer(rt.inventory))
		rt.book.Subscribe(orderStore.Observer())
	}

	rt.inventory.Subscribe(inventory.LowStockNotifier(cfg.Inventory.LowStockThreshold, logg))
	rt.book.Subscribe(order.RestockObserver(rt.inventory))

	if users != nil {
		users.AttachHistory(rt.book.All())
		rt.book.Subscribe(users.OrderObserver())
		if userStore != nil {
			users.UsePersister(userStore)
		}
	}

	if seed && len(rt.inventory.All()) == 0 {
		for _, it := range inventory.DemoCatalog() {
			if _, err := rt.inventory.Add(it); err != nil {
				return nil, fmt.Errorf("failed to seed %s: %w", it.Key(), err)
			}
		}
		logg.Info("Seeded demo catalog", zap.Int("items", len(rt.inventory.All())))
	}

	return rt, nil
}

// openStorage creates the object storage client and makes sure the bucket exists.
// An unreachable storage backend only disables saved carts and exports.
func openStorage(ctx context.Context, cfg *config.Config, logg *zap.Logger) (storage.Client, error) {
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		logg.Warn("Storage bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
	}
	return client, nil
}
