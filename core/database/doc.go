// Package database opens the optional relational store and inspects its schema.
//
// It wraps GORM with the two drivers the service supports: MySQL for deployments and
// SQLite (usually ":memory:") for tests and single-node demos.
//
// # Connect
//
// Connect builds the DSN, applies pool settings and pings the server. The service keeps
// running in memory when the connection fails; stores simply skip persistence.
//
// # Schema Inspection
//
// GetTableColumns returns the live column list of a table, used by the integrity
// feature to compare the database against the persisted record models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("running without persistence", zap.Error(err))
//	}
//	_ = database.Migrate(db, &inventory.FurnitureRecord{})
//	columns, err := database.GetTableColumns(db, "furniture")
package database
