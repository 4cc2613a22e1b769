package gamification

import "sort"

// CompletionRecord is the tally for one calendar day.
type CompletionRecord struct {
	Date      string `json:"date" yaml:"date" toml:"date"`
	Completed int    `json:"completed" yaml:"completed" toml:"completed"`
	Total     int    `json:"total" yaml:"total" toml:"total"`
	XPEarned  int    `json:"xpEarned" yaml:"xpEarned" toml:"xpEarned"`
}

// Ratio returns Completed/Total, or ok=false when there is nothing to divide by.
func (r CompletionRecord) Ratio() (ratio float64, ok bool) {
	if r.Total <= 0 {
		return 0, false
	}
	return float64(r.Completed) / float64(r.Total), true
}

// History is the per-day completion ledger, one record per date.
type History []CompletionRecord

// Find returns the record for date.
func (h History) Find(date string) (CompletionRecord, bool) {
	for _, r := range h {
		if r.Date == date {
			return r, true
		}
	}
	return CompletionRecord{}, false
}

// Record adds one completion worth xp to date's entry, creating it when absent.
// total is the number of tasks scheduled for that day at recording time; the
// stored total never drops below the completed count.
func (h History) Record(date string, total, xp int) History {
	for i := range h {
		if h[i].Date != date {
			continue
		}
		h[i].Completed++
		h[i].XPEarned += xp
		h[i].Total = max(h[i].Total, total, h[i].Completed)
		return h
	}
	return append(h, CompletionRecord{
		Date:      date,
		Completed: 1,
		Total:     max(total, 1),
		XPEarned:  xp,
	})
}

// Normalize merges duplicate dates and sorts the ledger by date.
func (h History) Normalize() History {
	byDate := make(map[string]int, len(h))
	out := make(History, 0, len(h))
	for _, r := range h {
		if r.Date == "" {
			continue
		}
		if i, ok := byDate[r.Date]; ok {
			out[i].Completed += r.Completed
			out[i].XPEarned += r.XPEarned
			out[i].Total = max(out[i].Total, r.Total, out[i].Completed)
			continue
		}
		byDate[r.Date] = len(out)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Clone returns a copy of the ledger.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}
