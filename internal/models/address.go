package models

import "strings"

// Address identifies a participant, the fee recipient or an administrator
type Address string

// IsZero reports whether the address is empty or consists only of zero digits
// (with an optional 0x prefix)
func (a Address) IsZero() bool {
	s := strings.TrimSpace(string(a))
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	return strings.Trim(s, "0") == ""
}

func (a Address) String() string {
	return string(a)
}

// Normalize returns the canonical form used for every address comparison:
// trimmed and lower case, so hex addresses match in any casing.
func (a Address) Normalize() Address {
	return Address(strings.ToLower(strings.TrimSpace(string(a))))
}
