package dashboard

// View is everything one dashboard render needs, computed atomically from
// a single snapshot of the raw collection.
type View struct {
	Stats      StatsBundle     `json:"stats"`
	ByDay      []DayCount      `json:"leads_by_day"`
	BySource   []SourceCount   `json:"leads_by_source"`
	Leads      []AnnotatedLead `json:"leads"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`

	// Selected is session state, filled in by the handler rather than
	// Compute so the pipeline stays pure.
	Selected []int64 `json:"selected_ids"`
}

// Compute runs the whole derived-state pipeline over one snapshot:
// origin annotation, filtering, sorting, pagination and statistics.
// It is pure; it never mutates raw.
func Compute(raw []AnnotatedLead, p Params) View {
	filtered := Filter(raw, p)
	sorted := Sort(filtered, p.Sort, p.Dir)
	page, totalPages, current := Paginate(sorted, p.Page)

	return View{
		Stats:      Stats(raw, p),
		ByDay:      LeadsByDay(filtered),
		BySource:   LeadsBySource(filtered),
		Leads:      page,
		Page:       current,
		TotalPages: totalPages,
		Total:      len(filtered),
	}
}
