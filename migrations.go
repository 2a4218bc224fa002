package userinfo

import "embed"

// MigrationsFS contains SQL migrations for both PostgreSQL and SQLite.
//
// The migrations are organized in a dialect-aware structure:
//   - Root files (data/sql/migrations/*.sql) contain PostgreSQL migrations
//   - SQLite overrides are in data/sql/migrations/sqlite/*.sql
//
// Usage:
//
//	import "io/fs"
//	import userinfo "github.com/goliatone/go-userinfo"
//	import persistence "github.com/goliatone/go-persistence-bun"
//
//	migrationsFS, _ := fs.Sub(userinfo.GetCoreMigrationsFS(), "data/sql/migrations")
//	client.RegisterDialectMigrations(
//	    migrationsFS,
//	    persistence.WithDialectSourceLabel("."),
//	    persistence.WithValidationTargets("postgres", "sqlite"),
//	)
//
//go:embed data/sql/migrations
var MigrationsFS embed.FS

// CoreMigrationsFS contains the user_infos, stores, activity and password
// reset tables. It omits the account tables hosts usually own.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var CoreMigrationsFS embed.FS

// AuthBootstrapMigrationsFS contains minimal users/admin_users tables so the
// account lookups work without an external auth package.
//
//go:embed data/sql/migrations/auth
var AuthBootstrapMigrationsFS embed.FS

// GetCoreMigrationsFS exposes the core migrations.
func GetCoreMigrationsFS() embed.FS {
	return CoreMigrationsFS
}

// GetAuthBootstrapMigrationsFS exposes the account bootstrap migrations.
func GetAuthBootstrapMigrationsFS() embed.FS {
	return AuthBootstrapMigrationsFS
}
