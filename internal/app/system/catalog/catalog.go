// Package catalog filters the study-group catalog by academic year and by
// the viewer's membership. All functions are pure and keep input order.
package catalog

import (
	"strings"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// AllYears selects every academic year.
const AllYears = "All"

var years = []string{"SD1", "SD2", "SD3", "SD4"}

// Years returns the known academic-year tags in display order.
func Years() []string {
	return append([]string(nil), years...)
}

// IsKnownYear reports whether y is one of Years.
func IsKnownYear(y string) bool {
	for _, k := range years {
		if k == y {
			return true
		}
	}
	return false
}

// FilterByYear returns the groups tagged with year. AllYears or a blank year
// returns every group.
func FilterByYear(groups []models.StudyGroup, year string) []models.StudyGroup {
	year = strings.TrimSpace(year)
	if year == "" || year == AllYears {
		return groups
	}
	out := make([]models.StudyGroup, 0, len(groups))
	for _, g := range groups {
		if g.Year == year {
			out = append(out, g)
		}
	}
	return out
}

// PartitionByMembership splits groups into those userID has joined and the
// rest.
func PartitionByMembership(groups []models.StudyGroup, userID string) (joined, other []models.StudyGroup) {
	joined = []models.StudyGroup{}
	other = []models.StudyGroup{}
	for _, g := range groups {
		if userID != "" && g.HasMember(userID) {
			joined = append(joined, g)
		} else {
			other = append(other, g)
		}
	}
	return joined, other
}
