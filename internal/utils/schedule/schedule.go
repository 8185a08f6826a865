// Package schedule infers completion progress from a declared duration and
// the hours logged so far.
package schedule

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paintworks/pw_backend/internal/core/domain"
)

const (
	hoursPerDay  = 8
	hoursPerWeek = 40
)

var (
	weekPattern = regexp.MustCompile(`(\d+)\s*week`)
	dayPattern  = regexp.MustCompile(`(\d+)\s*day`)
	hourPattern = regexp.MustCompile(`(\d+)\s*hour`)
)

// ParseDuration converts a duration expression into estimated hours. The
// input is either a plain number (hours) or free text containing any subset
// of "<n> week", "<n> day", "<n> hour" phrases, additive, case-insensitive
// (1 week = 40 hours, 1 day = 8 hours). A plain numeric input wins over any
// phrase matches. Unparseable input yields 0.
func ParseDuration(input string) float64 {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	}

	total := 0.0
	if m := weekPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += float64(n) * hoursPerWeek
	}
	if m := dayPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += float64(n) * hoursPerDay
	}
	if m := hourPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += float64(n)
	}
	return total
}

// Estimate is the inferred completion state for a project.
type Estimate struct {
	// Percent is round(100 * hoursWorked / estimatedHours), clamped to [0, 100].
	Percent int `json:"percent"`
	// EstimatedHours is the parsed total of the declared duration.
	EstimatedHours float64 `json:"estimatedHours"`
	// SuggestedStatus is advisory: the caller decides whether to apply it,
	// since a user may have set a status manually (e.g. approved) and an
	// automatic downgrade would be surprising.
	SuggestedStatus domain.ProjectStatus `json:"suggestedStatus"`
}

// EstimateProgress maps a declared duration and hours worked onto a
// completion percentage and a suggested lifecycle status. A zero estimated
// duration always yields 0 percent.
func EstimateProgress(estimatedDuration string, hoursWorked float64, current domain.ProjectStatus) Estimate {
	est := Estimate{EstimatedHours: ParseDuration(estimatedDuration)}
	if hoursWorked < 0 || math.IsNaN(hoursWorked) {
		hoursWorked = 0
	}

	if est.EstimatedHours > 0 {
		pct := int(math.Round(100 * hoursWorked / est.EstimatedHours))
		if pct < 0 {
			pct = 0
		} else if pct > 100 {
			pct = 100
		}
		est.Percent = pct
	}

	current = domain.NormalizeStatus(string(current))
	switch {
	case est.Percent >= 100:
		est.SuggestedStatus = domain.StatusCompleted
	case est.Percent > 0:
		est.SuggestedStatus = domain.StatusInProgress
	case current != domain.StatusQuotation:
		est.SuggestedStatus = domain.StatusQuotation
	default:
		est.SuggestedStatus = current
	}
	return est
}
