package dashboard

import (
	"fmt"
	"time"

	"leadpanel/internal/domain/lead"
)

// PageSize is the fixed table page size
const PageSize = 15

// FilterAll disables the status or origin predicate
const FilterAll = "all"

// SortKey enumerates the sortable lead fields. Keys resolve to typed
// accessors; there is no dynamic field lookup.
type SortKey string

const (
	SortByID        SortKey = "id"
	SortByCreatedAt SortKey = "created_at"
	SortByName      SortKey = "name"
	SortByPhone     SortKey = "phone"
	SortByEmail     SortKey = "email"
	SortByStatus    SortKey = "qualification_status"
	SortByOrigin    SortKey = "origin"
	SortByComment   SortKey = "comment"
)

// ParseSortKey validates a sort key supplied by the client
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortByID, SortByCreatedAt, SortByName, SortByPhone, SortByEmail,
		SortByStatus, SortByOrigin, SortByComment:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection validates a sort direction supplied by the client
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Params is the ephemeral filter/sort/page state of one dashboard view.
// A nil From means the date range is unset and every lead matches it.
type Params struct {
	Search string
	Status string // lead status value or "all"
	Origin string // derived origin label or "all"
	From   *time.Time
	To     *time.Time // nil with From set means a single-day range
	Sort   SortKey
	Dir    Direction
	Page   int
}

// DefaultParams is the view state a freshly opened dashboard uses:
// current month to date, newest first, first page.
func DefaultParams(now time.Time) Params {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	return Params{
		Status: FilterAll,
		Origin: FilterAll,
		From:   &from,
		To:     &to,
		Sort:   SortByCreatedAt,
		Dir:    Desc,
		Page:   1,
	}
}

// AnnotatedLead is a lead with its derived origin attached; origin is
// computed before any filtering because it is itself filterable.
type AnnotatedLead struct {
	lead.Lead
	Origin string `json:"origin"`
}
