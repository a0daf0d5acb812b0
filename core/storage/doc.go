// Package storage wraps the MinIO client used for the store's flat-file artifacts.
//
// Saved shopping carts and order exports are CSV objects in a single bucket:
//
//	carts/<email>.csv
//	orders/orders_<unix>.csv
//
// # Client Interface
//
// Client exposes only the calls the features need so tests can substitute the
// testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    log.Warn("bucket unavailable", zap.Error(err))
//	}
package storage
