// Package listquery implements the shared filter-sort-paginate pipeline used
// by the project and user list endpoints. Each stage is a pure
// transformation; for the same records and spec the output is deterministic,
// with ties broken by original relative order.
package listquery

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Direction selects the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const DefaultPageSize = 20

// Spec parameterizes one pipeline invocation.
type Spec struct {
	// Search is matched case-insensitively, diacritic-folded, as a substring
	// of any of a record's searchable fields. Empty means no search filter.
	Search string
	// Status filters by exact status; empty or "all" passes everything.
	Status string
	// Roles passes records matching at least one of the given role/type
	// tags; empty passes everything.
	Roles []string
	// SortKey selects one of the Fields sort accessors; unknown keys leave
	// the input order untouched.
	SortKey string
	SortDir Direction
	// Page is 1-based; out-of-range values clamp to the valid range.
	Page     int
	PageSize int
}

// Fields adapts a record type to the pipeline. Only the accessors a caller
// provides participate; nil accessors disable the corresponding stage.
type Fields[T any] struct {
	SearchText func(T) []string
	Status     func(T) string
	Roles      func(T) []string
	SortString map[string]func(T) string
	SortTime   map[string]func(T) string
	// SortRank orders by a fixed sequence (the status lifecycle) rather than
	// alphabetically, under the "status" sort key.
	SortRank map[string]func(T) int
}

// Result is one page of the pipeline output.
type Result[T any] struct {
	Page       []T `json:"page"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
	PageNumber int `json:"pageNumber"`
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics for search comparison.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ParseDirection normalizes a direction string, defaulting to ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Apply runs filter, stable sort and clamped pagination over records.
func Apply[T any](records []T, spec Spec, fields Fields[T]) Result[T] {
	filtered := filter(records, spec, fields)
	sortRecords(filtered, spec, fields)
	return paginate(filtered, spec)
}

func filter[T any](records []T, spec Spec, fields Fields[T]) []T {
	status := strings.ToLower(strings.TrimSpace(spec.Status))
	search := Fold(strings.TrimSpace(spec.Search))
	roles := make([]string, 0, len(spec.Roles))
	for _, r := range spec.Roles {
		if trimmed := strings.ToLower(strings.TrimSpace(r)); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if status != "" && status != "all" && fields.Status != nil {
			if strings.ToLower(fields.Status(rec)) != status {
				continue
			}
		}
		if len(roles) > 0 && fields.Roles != nil {
			if !matchesAnyRole(fields.Roles(rec), roles) {
				continue
			}
		}
		if search != "" && fields.SearchText != nil {
			if !matchesSearch(fields.SearchText(rec), search) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

func matchesAnyRole(have []string, want []string) bool {
	for _, h := range have {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func matchesSearch(fieldValues []string, foldedQuery string) bool {
	for _, v := range fieldValues {
		if strings.Contains(Fold(v), foldedQuery) {
			return true
		}
	}
	return false
}

func sortRecords[T any](records []T, spec Spec, fields Fields[T]) {
	key := strings.TrimSpace(spec.SortKey)
	if key == "" {
		return
	}
	desc := spec.SortDir == Desc

	if byRank, ok := fields.SortRank[key]; ok {
		sort.SliceStable(records, func(i, j int) bool {
			if desc {
				return byRank(records[i]) > byRank(records[j])
			}
			return byRank(records[i]) < byRank(records[j])
		})
		return
	}
	if byTime, ok := fields.SortTime[key]; ok {
		sort.SliceStable(records, func(i, j int) bool {
			ti, tj := parseTimestamp(byTime(records[i])), parseTimestamp(byTime(records[j]))
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
		return
	}
	if byString, ok := fields.SortString[key]; ok {
		sort.SliceStable(records, func(i, j int) bool {
			si, sj := strings.ToLower(byString(records[i])), strings.ToLower(byString(records[j]))
			if desc {
				return si > sj
			}
			return si < sj
		})
	}
}

// parseTimestamp parses record dates for sorting; unparsable dates sort as
// the zero epoch rather than erroring.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Unix(0, 0).UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

func paginate[T any](records []T, spec Spec) Result[T] {
	pageSize := spec.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	// A page number beyond the last available page clamps silently to the
	// last page; it never errors and never yields an empty page while
	// records exist.
	page := spec.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result[T]{
		Page:       append([]T{}, records[start:end]...),
		TotalCount: total,
		TotalPages: totalPages,
		PageNumber: page,
	}
}
