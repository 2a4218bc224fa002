package migrations

import (
	"io/fs"

	userinfo "github.com/goliatone/go-userinfo"
)

func init() {
	coreFS, err := fs.Sub(userinfo.GetCoreMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
