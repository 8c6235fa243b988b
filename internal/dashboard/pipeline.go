package dashboard

import (
	"sort"
	"strings"
	"time"

	"leadpanel/internal/domain/lead"
)

// Annotate attaches the derived origin to every lead
func Annotate(leads []lead.Lead) []AnnotatedLead {
	out := make([]AnnotatedLead, len(leads))
	for i, l := range leads {
		out[i] = AnnotatedLead{Lead: l, Origin: l.Origin()}
	}
	return out
}

// Filter returns the leads matching every predicate in p. The predicates
// are independent, so applying them in any order yields the same set.
func Filter(leads []AnnotatedLead, p Params) []AnnotatedLead {
	out := make([]AnnotatedLead, 0, len(leads))
	for _, l := range leads {
		if matches(l, p) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l AnnotatedLead, p Params) bool {
	if p.Search != "" {
		name := ""
		if l.Name != nil {
			name = *l.Name
		}
		if !strings.Contains(strings.ToLower(name), strings.ToLower(p.Search)) {
			return false
		}
	}

	if p.Status != "" && p.Status != FilterAll && string(l.Status) != p.Status {
		return false
	}

	if p.Origin != "" && p.Origin != FilterAll && l.Origin != p.Origin {
		return false
	}

	if p.From != nil {
		from := startOfDay(*p.From)
		to := *p.From
		if p.To != nil {
			to = *p.To
		}
		end := endOfDay(to)
		if l.CreatedAt.Before(from) || l.CreatedAt.After(end) {
			return false
		}
	}

	return true
}

// Sort orders leads by key without mutating the input. The sort is stable
// and leads missing a value on the key always come last, whatever the
// direction; direction only flips the order of two present values.
func Sort(leads []AnnotatedLead, key SortKey, dir Direction) []AnnotatedLead {
	out := make([]AnnotatedLead, len(leads))
	copy(out, leads)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], key, dir)
	})
	return out
}

func less(a, b AnnotatedLead, key SortKey, dir Direction) bool {
	switch key {
	case SortByID:
		return lessInt64(a.ID, b.ID, dir)
	case SortByCreatedAt:
		// Timestamps compare as epoch time, never lexically
		return lessInt64(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), dir)
	default:
		av, aok := textValue(a, key)
		bv, bok := textValue(b, key)
		if !aok {
			return false
		}
		if !bok {
			return true
		}
		if av == bv {
			return false
		}
		if dir == Desc {
			return av > bv
		}
		return av < bv
	}
}

func lessInt64(a, b int64, dir Direction) bool {
	if a == b {
		return false
	}
	if dir == Desc {
		return a > b
	}
	return a < b
}

// textValue is the typed accessor for the string-valued sort keys; the
// second result is false when the lead has no value on the key.
func textValue(l AnnotatedLead, key SortKey) (string, bool) {
	switch key {
	case SortByName:
		return deref(l.Name)
	case SortByPhone:
		return deref(l.Phone)
	case SortByEmail:
		return deref(l.Email)
	case SortByComment:
		return deref(l.Comment)
	case SortByStatus:
		return string(l.Status), l.Status != ""
	case SortByOrigin:
		return l.Origin, true
	}
	return "", false
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// Paginate slices out one page and returns it with the total page count.
// The requested page is clamped to [1, pageCount], or 1 when empty.
func Paginate(leads []AnnotatedLead, page int) ([]AnnotatedLead, int, int) {
	totalPages := (len(leads) + PageSize - 1) / PageSize

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	if start >= len(leads) {
		return []AnnotatedLead{}, totalPages, page
	}
	end := start + PageSize
	if end > len(leads) {
		end = len(leads)
	}
	return leads[start:end], totalPages, page
}

// PreviousPeriodRange shifts [from, to] backward by its own day span: the
// previous range ends the day before from and has the same length, with no
// gap and no overlap. Both bounds are expanded to full-day limits.
func PreviousPeriodRange(from, to time.Time) (time.Time, time.Time) {
	days := daySpan(from, to)
	prevTo := startOfDay(from).AddDate(0, 0, -1)
	prevFrom := prevTo.AddDate(0, 0, -days)
	return startOfDay(prevFrom), endOfDay(prevTo)
}

func daySpan(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
