package report

import (
	"fmt"
	"sort"
	"time"
)

// Periodic: record yang bisa direkap per (tahun, bulan).
// ok=false berarti periode kosong atau tidak valid, record dilewati.
type Periodic interface {
	ReportPeriod() (year, month int, ok bool)
	ReportCreatedAt() time.Time
}

type Period struct {
	Year  int `json:"period_year"`
	Month int `json:"period_month"`
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Label() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Before membandingkan secara kronologis.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// AddMonths menggeser periode n bulan (boleh negatif).
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + (p.Month - 1) + n
	return Period{Year: idx / 12, Month: idx%12 + 1}
}

type PeriodSummary[T Periodic] struct {
	Year  int `json:"period_year"`
	Month int `json:"period_month"`
	Count int `json:"count"`
	// Sample: laporan terbaru (created_at) pada periode ini
	Sample *T `json:"sample,omitempty"`
}

func (s PeriodSummary[T]) Period() Period {
	return Period{Year: s.Year, Month: s.Month}
}

// AggregateByPeriod mengelompokkan record per (tahun, bulan), terbaru dulu.
// Record tanpa periode valid dilewati. Input kosong -> slice kosong (bukan nil).
func AggregateByPeriod[T Periodic](records []T) []PeriodSummary[T] {
	out := make([]PeriodSummary[T], 0)
	index := make(map[Period]int)

	for i := range records {
		year, month, ok := records[i].ReportPeriod()
		if !ok {
			continue
		}
		key := Period{Year: year, Month: month}

		pos, seen := index[key]
		if !seen {
			out = append(out, PeriodSummary[T]{Year: year, Month: month})
			pos = len(out) - 1
			index[key] = pos
		}

		s := &out[pos]
		s.Count++
		if s.Sample == nil || records[i].ReportCreatedAt().After((*s.Sample).ReportCreatedAt()) {
			rec := records[i]
			s.Sample = &rec
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Period().Before(out[i].Period())
	})
	return out
}

// CountsByPeriod: versi ringkas tanpa sample, dipakai grafik dashboard.
func CountsByPeriod[T Periodic](records []T) map[Period]int {
	counts := make(map[Period]int)
	for _, s := range AggregateByPeriod(records) {
		counts[s.Period()] = s.Count
	}
	return counts
}
