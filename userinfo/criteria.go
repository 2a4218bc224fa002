package userinfo

import (
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Criteria builders below never fail: missing values or fields outside the
// permitted sets return the query untouched.

func column(name string) bun.Ident {
	return bun.Ident("ui." + name)
}

// WhereName matches a case-insensitive substring of first_name or last_name.
// Both sides are folded by the database so stored text always matches itself.
// % and _ in name are matched literally.
func WhereName(field types.NameField, name string) repository.SelectCriteria {
	needle := likeEscaper.Replace(strings.TrimSpace(name))
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if needle == "" || !field.Valid() {
			return q
		}
		return q.Where(`LOWER(?) LIKE LOWER(?) ESCAPE '\'`, column(string(field)), "%"+needle+"%")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// WhereEqual matches email, tel or sex exactly.
func WhereEqual(field types.ExactField, value string) repository.SelectCriteria {
	value = strings.TrimSpace(value)
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if value == "" || !field.Valid() {
			return q
		}
		return q.Where("? = ?", column(string(field)), value)
	}
}

// WhereDateRange bounds birthday or hire_date. Bounds are inclusive and
// compared at day precision.
func WhereDateRange(field types.DateField, from, to *time.Time) repository.SelectCriteria {
	start := dateBound(from)
	end := dateBound(to)
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if !field.Valid() || (start == nil && end == nil) {
			return q
		}
		if start != nil {
			q = q.Where("? >= ?", column(string(field)), *start)
		}
		if end != nil {
			q = q.Where("? <= ?", column(string(field)), *end)
		}
		return q
	}
}

// WherePositionCodeBelow keeps records whose position_code is strictly lower
// than the threshold. A zero threshold disables the filter.
func WherePositionCodeBelow(threshold int) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if threshold == 0 {
			return q
		}
		return q.Where("? < ?", column("position_code"), threshold)
	}
}

// WhereStore restricts results to one store. uuid.Nil disables the filter.
func WhereStore(storeID uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if storeID == uuid.Nil {
			return q
		}
		return q.Where("? = ?", column("store_id"), storeID)
	}
}

// WhereStoreOrUnassigned matches store_id exactly, treating uuid.Nil as
// "no store assigned".
func WhereStoreOrUnassigned(storeID uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if storeID == uuid.Nil {
			return q.Where("? IS NULL", column("store_id"))
		}
		return q.Where("? = ?", column("store_id"), storeID)
	}
}

// WhereID restricts results to one record. uuid.Nil disables the filter.
func WhereID(id uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if id == uuid.Nil {
			return q
		}
		return q.Where("? = ?", column("id"), id)
	}
}

// WhereEmail matches email exactly.
func WhereEmail(email string) repository.SelectCriteria {
	return WhereEqual(types.ExactFieldEmail, email)
}

// WhereSlackUserID matches the linked Slack identity.
func WhereSlackUserID(slackUserID string) repository.SelectCriteria {
	slackUserID = strings.TrimSpace(slackUserID)
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if slackUserID == "" {
			return q
		}
		return q.Where("? = ?", column("slack_user_id"), slackUserID)
	}
}

// WithAdminAccount keeps records referenced by an admin_users row, optionally
// a specific one.
func WithAdminAccount(adminAccountID uuid.UUID) repository.SelectCriteria {
	return withLinkedAccount("admin_users", adminAccountID)
}

// WithAccount keeps records referenced by a users row, optionally a specific one.
func WithAccount(accountID uuid.UUID) repository.SelectCriteria {
	return withLinkedAccount("users", accountID)
}

func withLinkedAccount(table string, accountID uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if accountID == uuid.Nil {
			return q.Where("EXISTS (SELECT 1 FROM ? AS linked WHERE linked.user_info_id = ?)",
				bun.Ident(table), column("id"))
		}
		return q.Where("EXISTS (SELECT 1 FROM ? AS linked WHERE linked.user_info_id = ? AND linked.id = ?)",
			bun.Ident(table), column("id"), accountID)
	}
}

// WithDeleted lifts the soft-delete scope.
func WithDeleted() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.WhereAllWithDeleted()
	}
}

// OrderByCreation sorts oldest first so "first record" lookups are stable.
func OrderByCreation() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("? ASC, ? ASC", column("created_at"), column("id"))
	}
}

// Paginate applies limit/offset.
func Paginate(p types.Pagination) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(p.Limit).Offset(p.Offset)
	}
}

// FilterCriteria expands a search filter into its criteria list.
func FilterCriteria(filter types.UserInfoFilter) []repository.SelectCriteria {
	return []repository.SelectCriteria{
		WhereName(filter.NameField, filter.Name),
		WhereEqual(filter.ExactField, filter.Exact),
		WhereDateRange(filter.DateField, filter.DateFrom, filter.DateTo),
		WherePositionCodeBelow(filter.PositionCodeBelow),
		WhereStore(filter.StoreID),
	}
}

func dateBound(value *time.Time) *time.Time {
	if value == nil || value.IsZero() {
		return nil
	}
	day := dateOnly(*value)
	return &day
}

func dateOnly(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	y, m, d := value.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
