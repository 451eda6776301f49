package role

import "strings"

const (
	Admin   = "admin"
	Doctor  = "doctor"
	Patient = "patient"
)

var All = []string{Admin, Doctor, Patient}

func Valid(r string) bool {
	for _, v := range All {
		if v == r {
			return true
		}
	}
	return false
}

// Normalize lowercases and trims a role tag.
func Normalize(r string) string {
	return strings.ToLower(strings.TrimSpace(r))
}

// Allows reports whether have is one of want. An empty want allows everyone.
func Allows(have string, want ...string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		if w == have {
			return true
		}
	}
	return false
}
