// Package config loads the store's settings.
//
// Sources, lowest precedence first: the 'default' struct tags, an optional
// config.yaml, an optional .env file, then environment variables. Environment
// keys are the upper-cased dotted path with dots replaced by underscores
// (database.host -> DATABASE_HOST). List values such as AUTH_ADMINS are comma separated.
//
// # Configuration Structure
//
//   - Server: port, name, timeouts and body limit
//   - Log: level and encoding
//   - Database: optional mysql or sqlite persistence
//   - Storage: MinIO/S3 endpoint, credentials and bucket
//   - Auth: token secret and lifetime, admin emails, bcrypt cost
//   - Inventory: low stock threshold, demo seeding
//   - Cart: tax rate and promotion
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
