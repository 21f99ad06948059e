// Package perf collects request and query timings into a ring buffer
// and aggregates them per feature module (agenda, kiosk, turmas,
// students, billing) for the performance endpoint.
package perf

import (
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Feature modules timings are grouped under.
const (
	ModuleAgenda   = "agenda"
	ModuleKiosk    = "kiosk"
	ModuleTurmas   = "turmas"
	ModuleStudents = "students"
	ModuleBilling  = "billing"
	ModuleRefData  = "refdata"
	ModuleOther    = "other"
)

// ModuleForPath maps a URL path to the feature module serving it. The
// kiosk module claims the check-in and student-search endpoints: those
// are the latencies a student at the front desk feels.
func ModuleForPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/agenda"), strings.HasPrefix(path, "/api/hybrid-agenda"):
		return ModuleAgenda
	case strings.HasPrefix(path, "/api/checkin"),
		strings.HasPrefix(path, "/api/kiosk"),
		strings.HasPrefix(path, "/api/students/search"),
		path == "/api/turmas/available-now":
		return ModuleKiosk
	case strings.HasPrefix(path, "/api/turmas"):
		return ModuleTurmas
	case strings.HasPrefix(path, "/api/students"):
		return ModuleStudents
	case strings.HasPrefix(path, "/api/subscriptions"), strings.HasPrefix(path, "/api/payments"):
		return ModuleBilling
	case strings.HasPrefix(path, "/api/instructors"),
		strings.HasPrefix(path, "/api/units"),
		strings.HasPrefix(path, "/api/training-areas"),
		strings.HasPrefix(path, "/api/courses"),
		strings.HasPrefix(path, "/api/billing-plans"):
		return ModuleRefData
	default:
		return ModuleOther
	}
}

// ModuleForTable maps a storage table to the feature module owning it.
func ModuleForTable(table string) string {
	switch table {
	case "agenda_item":
		return ModuleAgenda
	case "kiosk_session", "attendance":
		return ModuleKiosk
	case "turma", "lesson", "enrollment":
		return ModuleTurmas
	case "student":
		return ModuleStudents
	case "subscription", "payment":
		return ModuleBilling
	case "instructor", "unit", "training_area", "course", "billing_plan":
		return ModuleRefData
	default:
		return ModuleOther
	}
}

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Module     string // feature module, see ModuleForPath/ModuleForTable
	Path       string // "GET /api/checkin" or "SELECT agenda_item"
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// Writes are non-blocking; when full, oldest entries are overwritten.
// Aggregation happens only on read (Snapshot).
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64 // total entries ever written (atomic for stats)
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// PRE: e is a valid Entry
// POST: Entry stored; if buffer full, oldest entry overwritten
// Lock hold time: single index increment + struct copy (~nanoseconds).
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
// PRE: none
// POST: returns count >= 0
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRequests  int64
	RequestP50Ms   float64
	RequestP95Ms   float64
	RequestP99Ms   float64
	CheckInP95Ms   float64 // kiosk-module requests only
	Modules        []PathStat
	SlowestPaths   []PathStat
	SlowestQueries []PathStat
}

// PathStat aggregates timing for a single path, query label or module.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	TotalMs float64
}

// Snapshot computes aggregated stats from the ring buffer.
// This is expensive (sorts) and should only be called on dashboard page load.
// PRE: none
// POST: Returns a Snapshot with percentiles and top-N lists
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	// Copy under lock, aggregate outside it
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var requestDurations []float64
	var kioskDurations []float64
	requestStats := make(map[string]*PathStat)
	queryStats := make(map[string]*PathStat)
	moduleStats := make(map[string]*PathStat)

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		if e.Module != "" {
			accumulate(moduleStats, e.Module, e.DurationMs)
		}
		switch e.Kind {
		case KindRequest:
			requestDurations = append(requestDurations, e.DurationMs)
			if e.Module == ModuleKiosk {
				kioskDurations = append(kioskDurations, e.DurationMs)
			}
			accumulate(requestStats, e.Path, e.DurationMs)
		case KindQuery:
			accumulate(queryStats, e.Path, e.DurationMs)
		}
	}

	for _, s := range requestStats {
		s.AvgMs = s.TotalMs / float64(s.Count)
	}
	for _, s := range queryStats {
		s.AvgMs = s.TotalMs / float64(s.Count)
	}
	for _, s := range moduleStats {
		s.AvgMs = s.TotalMs / float64(s.Count)
	}

	snap := Snapshot{
		TotalRequests:  c.TotalRecorded(),
		Modules:        topByAvg(moduleStats, len(moduleStats)),
		SlowestPaths:   topByAvg(requestStats, topN),
		SlowestQueries: topByAvg(queryStats, topN),
	}

	if len(requestDurations) > 0 {
		sort.Float64s(requestDurations)
		snap.RequestP50Ms = percentile(requestDurations, 50)
		snap.RequestP95Ms = percentile(requestDurations, 95)
		snap.RequestP99Ms = percentile(requestDurations, 99)
	}
	if len(kioskDurations) > 0 {
		sort.Float64s(kioskDurations)
		snap.CheckInP95Ms = percentile(kioskDurations, 95)
	}

	return snap
}

func accumulate(stats map[string]*PathStat, key string, durationMs float64) {
	s, ok := stats[key]
	if !ok {
		s = &PathStat{Path: key}
		stats[key] = s
	}
	s.Count++
	s.TotalMs += durationMs
	if durationMs > s.MaxMs {
		s.MaxMs = durationMs
	}
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N paths sorted by average duration (descending).
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
