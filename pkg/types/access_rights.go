package types

// AccessFlag is one bit of the access_right field.
type AccessFlag int

// Bit order is fixed: admin is the most significant bit, store the least.
const (
	AccessFlagStore AccessFlag = 1 << iota
	AccessFlagUser
	AccessFlagAdmin
)

// AccessRightsMax is the largest value access_right can hold.
const AccessRightsMax = int(AccessFlagAdmin | AccessFlagUser | AccessFlagStore)

// AccessRights holds the three permission flags behind access_right.
type AccessRights struct {
	Admin bool
	User  bool
	Store bool
}

// AccessRightsFromFlags builds AccessRights from the 0/1 values submitted by
// admin forms.
func AccessRightsFromFlags(admin, user, store int) (AccessRights, error) {
	for _, flag := range []int{admin, user, store} {
		if flag != 0 && flag != 1 {
			return AccessRights{}, ErrInvalidAccessRightFlag
		}
	}
	return AccessRights{
		Admin: admin == 1,
		User:  user == 1,
		Store: store == 1,
	}, nil
}

// DecodeAccessRights splits a stored access_right value into its flags. Bits
// above the admin flag are ignored.
func DecodeAccessRights(value int) AccessRights {
	return AccessRights{
		Admin: value&int(AccessFlagAdmin) != 0,
		User:  value&int(AccessFlagUser) != 0,
		Store: value&int(AccessFlagStore) != 0,
	}
}

// Encode returns the decimal value of the binary string admin|user|store.
func (a AccessRights) Encode() int {
	value := 0
	if a.Admin {
		value |= int(AccessFlagAdmin)
	}
	if a.User {
		value |= int(AccessFlagUser)
	}
	if a.Store {
		value |= int(AccessFlagStore)
	}
	return value
}

// Has reports whether the flag is set.
func (a AccessRights) Has(flag AccessFlag) bool {
	return a.Encode()&int(flag) != 0
}

// String renders the three flags as a binary string, admin first.
func (a AccessRights) String() string {
	out := []byte("000")
	if a.Admin {
		out[0] = '1'
	}
	if a.User {
		out[1] = '1'
	}
	if a.Store {
		out[2] = '1'
	}
	return string(out)
}
