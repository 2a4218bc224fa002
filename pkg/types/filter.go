package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NameField lists the columns accepted by name substring filters.
type NameField string

const (
	NameFieldFirstName NameField = "first_name"
	NameFieldLastName  NameField = "last_name"
)

// Valid reports whether the field may be filtered by substring.
func (f NameField) Valid() bool {
	return f == NameFieldFirstName || f == NameFieldLastName
}

// ExactField lists the columns accepted by exact match filters.
type ExactField string

const (
	ExactFieldEmail ExactField = "email"
	ExactFieldTel   ExactField = "tel"
	ExactFieldSex   ExactField = "sex"
)

// Valid reports whether the field may be filtered by equality.
func (f ExactField) Valid() bool {
	switch f {
	case ExactFieldEmail, ExactFieldTel, ExactFieldSex:
		return true
	default:
		return false
	}
}

// DateField lists the columns accepted by date range filters.
type DateField string

const (
	DateFieldBirthday DateField = "birthday"
	DateFieldHireDate DateField = "hire_date"
)

// Valid reports whether the field may be filtered by range.
func (f DateField) Valid() bool {
	return f == DateFieldBirthday || f == DateFieldHireDate
}

// UserInfoFilter collects the optional criteria accepted by user info searches.
// Empty values disable the matching criterion.
type UserInfoFilter struct {
	NameField         NameField
	Name              string
	ExactField        ExactField
	Exact             string
	DateField         DateField
	DateFrom          *time.Time
	DateTo            *time.Time
	PositionCodeBelow int
	StoreID           uuid.UUID
	Pagination        Pagination
}

// Validate reports fields outside the permitted sets. Searches still run when
// this fails; the offending criteria are ignored.
func (f UserInfoFilter) Validate() error {
	var invalid []string
	if f.NameField != "" && !f.NameField.Valid() {
		invalid = append(invalid, string(f.NameField))
	}
	if f.ExactField != "" && !f.ExactField.Valid() {
		invalid = append(invalid, string(f.ExactField))
	}
	if f.DateField != "" && !f.DateField.Valid() {
		invalid = append(invalid, string(f.DateField))
	}
	if len(invalid) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidFilterField, strings.Join(invalid, ", "))
}
