// Package bootstrap registers the users/admin_users account tables. Import it
// for its side effect when no auth package provides them.
package bootstrap

import (
	"io/fs"

	userinfo "github.com/goliatone/go-userinfo"
	"github.com/goliatone/go-userinfo/migrations"
)

func init() {
	authFS, err := fs.Sub(userinfo.GetAuthBootstrapMigrationsFS(), "data/sql/migrations/auth")
	if err != nil {
		return
	}
	migrations.Register(authFS)
}
