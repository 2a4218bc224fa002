package migrations

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

var (
	mu          sync.RWMutex
	filesystems []fs.FS
)

// Register records a filesystem that contains go-userinfo migrations. Each
// filesystem is rooted at a migrations directory: PostgreSQL scripts at the
// top level, SQLite overrides under sqlite/.
func Register(fsys fs.FS) {
	if fsys == nil {
		return
	}
	mu.Lock()
	filesystems = append(filesystems, fsys)
	mu.Unlock()
}

// Filesystems returns the registered filesystems in registration order.
func Filesystems() []fs.FS {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]fs.FS, len(filesystems))
	copy(out, filesystems)
	return out
}

// UpScripts lists the up migrations of fsys for the dialect, sorted by
// version prefix.
func UpScripts(fsys fs.FS, dialect string) ([]string, error) {
	pattern := "*.up.sql"
	switch normalizeDialect(dialect) {
	case "sqlite":
		pattern = "sqlite/*.up.sql"
	case "postgres":
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
	entries, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

func normalizeDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql", "pg":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return ""
	}
}
