// Package domain contains core concepts of the matching platform.
// This file defines user roles, the cause catalog, and the Profile entity.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Role drives opposite-role matching: donors are matched with help seekers
// and vice versa. A role is chosen at signup and never changes.
type Role string

const (
	RoleDonor      Role = "donor"
	RoleHelpSeeker Role = "help-seeker"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDonor:
		return RoleDonor, nil
	case RoleHelpSeeker:
		return RoleHelpSeeker, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Opposite returns the role a user is matched against.
func (r Role) Opposite() Role {
	if r == RoleDonor {
		return RoleHelpSeeker
	}
	return RoleDonor
}

// CauseAll is the sentinel filter value meaning "no cause filter".
const CauseAll = "all"

// Causes is the fixed catalog of cause tags. Profiles may only carry tags
// from this list.
var Causes = []string{
	"education",
	"healthcare",
	"food",
	"shelter",
	"clothing",
	"elderly",
	"children",
	"disabilities",
	"environment",
	"animals",
}

func IsKnownCause(cause string) bool {
	return lo.Contains(Causes, cause)
}

// NormalizeCauses lowercases and deduplicates a cause selection while
// preserving first-seen order.
func NormalizeCauses(causes []string) []string {
	lowered := lo.Map(causes, func(c string, _ int) string {
		return strings.ToLower(strings.TrimSpace(c))
	})
	return lo.Uniq(lowered)
}

// Profile is the public face of a user. A profile is eligible for search and
// matching only once Complete is true; the flag transitions to true exactly
// once, in the setup flow.
type Profile struct {
	UserID    string
	Email     string
	Role      Role
	Name      string
	Location  string
	Bio       string
	Causes    []string
	ImageURL  string
	Complete  bool
	UpdatedAt time.Time
}

// MatchesLocation reports whether the profile location contains the filter
// as a case-insensitive substring. An empty filter matches everything.
func (p Profile) MatchesLocation(filter string) bool {
	if strings.TrimSpace(filter) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Location), strings.ToLower(filter))
}

// MatchesCause reports whether the profile supports the given cause.
// The "all" sentinel matches everything.
func (p Profile) MatchesCause(cause string) bool {
	if cause == "" || cause == CauseAll {
		return true
	}
	return lo.Contains(p.Causes, cause)
}
