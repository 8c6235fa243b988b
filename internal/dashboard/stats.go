package dashboard

import (
	"sort"
	"strconv"

	"leadpanel/internal/domain/lead"
)

// Metric is one stat-card value with its period-over-period delta
type Metric struct {
	Count int    `json:"count"`
	Delta string `json:"delta"`
}

// StatsBundle is the stat-card row of the dashboard
type StatsBundle struct {
	Total Metric `json:"total"`
	Hot   Metric `json:"hot"`
	Warm  Metric `json:"warm"`
	Cold  Metric `json:"cold"`
	Won   Metric `json:"won"`
}

// DayCount is one point of the leads-per-day series
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SourceCount is one slice of the origin breakdown
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Stats computes the stat cards from the entire raw collection. The current
// cohort is filtered by status, origin and date range; the previous cohort
// applies the same status/origin predicates against the range shifted back
// by its own length. The text search is presentation-only and never
// participates in either cohort.
func Stats(all []AnnotatedLead, p Params) StatsBundle {
	cohort := p
	cohort.Search = ""

	current := Filter(all, cohort)

	var previous []AnnotatedLead
	if p.From != nil {
		to := *p.From
		if p.To != nil {
			to = *p.To
		}
		prevFrom, prevTo := PreviousPeriodRange(*p.From, to)

		prevParams := cohort
		prevParams.From = &prevFrom
		prevParams.To = &prevTo
		previous = Filter(all, prevParams)
	}

	cur := countByStatus(current)
	prev := countByStatus(previous)

	return StatsBundle{
		Total: Metric{Count: len(current), Delta: Delta(len(current), len(previous))},
		Hot:   Metric{Count: cur[lead.StatusHot], Delta: Delta(cur[lead.StatusHot], prev[lead.StatusHot])},
		Warm:  Metric{Count: cur[lead.StatusWarm], Delta: Delta(cur[lead.StatusWarm], prev[lead.StatusWarm])},
		Cold:  Metric{Count: cur[lead.StatusCold], Delta: Delta(cur[lead.StatusCold], prev[lead.StatusCold])},
		Won:   Metric{Count: cur[lead.StatusWon], Delta: Delta(cur[lead.StatusWon], prev[lead.StatusWon])},
	}
}

func countByStatus(leads []AnnotatedLead) map[lead.Status]int {
	counts := make(map[lead.Status]int)
	for _, l := range leads {
		counts[l.Status]++
	}
	return counts
}

// Delta formats the percentage change from previous to current with one
// decimal. A zero previous period reports "100.0" when anything arrived
// and "0.0" otherwise, signalling change without dividing by zero.
func Delta(current, previous int) string {
	if previous == 0 {
		if current > 0 {
			return "100.0"
		}
		return "0.0"
	}
	delta := (float64(current-previous) / float64(previous)) * 100
	return strconv.FormatFloat(delta, 'f', 1, 64)
}

// LeadsByDay counts the filtered leads per calendar day, ascending by date
func LeadsByDay(leads []AnnotatedLead) []DayCount {
	byDay := make(map[string]int)
	for _, l := range leads {
		byDay[l.CreatedAt.Format("2006-01-02")]++
	}

	out := make([]DayCount, 0, len(byDay))
	for date, count := range byDay {
		out = append(out, DayCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// LeadsBySource counts the filtered leads per derived origin. Origins with
// no leads are omitted; ties order by label for determinism.
func LeadsBySource(leads []AnnotatedLead) []SourceCount {
	bySource := make(map[string]int)
	for _, l := range leads {
		bySource[l.Origin]++
	}

	out := make([]SourceCount, 0, len(bySource))
	for source, count := range bySource {
		out = append(out, SourceCount{Source: source, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}
