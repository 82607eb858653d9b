package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Recorder accumulates wall time per named section between resets. It is
// shared by the world and its build workers, so every method is safe for
// concurrent use. A nil *Recorder records nothing.
type Recorder struct {
	mu     sync.Mutex
	totals map[string]time.Duration
	counts map[string]int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		totals: make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer rec.Track("world.Reconcile")()
func (r *Recorder) Track(name string) func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		r.Add(name, time.Since(start))
	}
}

// Add records d under name.
func (r *Recorder) Add(name string, d time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.totals[name] += d
	r.counts[name]++
	r.mu.Unlock()
}

// Reset clears the current totals. The driver calls it once per tick.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	clear(r.totals)
	clear(r.counts)
	r.mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func (r *Recorder) Snapshot() map[string]time.Duration {
	if r == nil {
		return map[string]time.Duration{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]time.Duration, len(r.totals))
	for k, v := range r.totals {
		out[k] = v
	}
	return out
}

// Count reports how many times name was recorded since the last reset.
func (r *Recorder) Count(name string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

// TopN formats the n largest totals, longest first.
// Example: "world.Reconcile:4.2ms, chunk.Build:2.1ms"
func (r *Recorder) TopN(n int) string {
	ss := r.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0".
func formatMs(d time.Duration) string {
	s := fmt.Sprintf("%.1f", float64(d.Microseconds())/1000.0)
	return strings.TrimSuffix(s, ".0") + "ms"
}
