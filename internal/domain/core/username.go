package core

import "strings"

// DeriveUsername turns a display name into a login: lower case, words joined by "_".
func DeriveUsername(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
