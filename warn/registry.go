// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package warn

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/hashicorp/logutils"
)

// DefaultPerNameCap is the default number of times a given warning name is
// logged before further occurrences are counted but suppressed.
const DefaultPerNameCap = 10

// Registry records and rate-limits warnings emitted by the core packages
// over the course of one CLI invocation. The zero value is not usable;
// construct with New.
type Registry struct {
	logger  *log.Logger
	muted   map[string]bool
	perName int
	counts  map[string]int
}

// New returns a Registry that writes warnings at WARN level (filtered
// through a logutils.LevelFilter, so a future -v flag can lower MinLevel
// to DEBUG without changing call sites) to w. muted lists warning names
// that should never be printed, though they are still counted for the
// final summary.
func New(w io.Writer, muted []string) *Registry {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "WARN", "ERROR"},
		MinLevel: "WARN",
		Writer:   w,
	}
	r := &Registry{
		logger:  log.New(filter, "", 0),
		muted:   make(map[string]bool, len(muted)),
		perName: DefaultPerNameCap,
		counts:  make(map[string]int),
	}
	for _, name := range muted {
		r.muted[name] = true
	}
	return r
}

// NewDiscard returns a Registry that never prints anything, for tests and
// for programmatic callers that only care about the final Summary.
func NewDiscard() *Registry {
	return New(io.Discard, nil)
}

// SetPerNameCap overrides DefaultPerNameCap.
func (r *Registry) SetPerNameCap(n int) {
	r.perName = n
}

// Warn records one occurrence of the named warning. If the name is muted,
// or has already been logged perName times, the message is not printed,
// but the occurrence still counts toward Summary.
func (r *Registry) Warn(name, format string, args ...interface{}) {
	r.counts[name]++
	if r.muted[name] {
		return
	}
	if r.counts[name] > r.perName {
		return
	}
	r.logger.Printf("[WARN] %s: %s", name, fmt.Sprintf(format, args...))
}

// Suppressed is one line of Summary: a warning name and how many
// occurrences beyond the per-name cap were suppressed.
type Suppressed struct {
	Name  string
	Total int
	Over  int // occurrences beyond perName that were not printed
}

// Summary returns the suppressed-count report, sorted by name, for
// any warning name whose count exceeded the per-name cap.
func (r *Registry) Summary() []Suppressed {
	var out []Suppressed
	for name, total := range r.counts {
		if total > r.perName {
			out = append(out, Suppressed{Name: name, Total: total, Over: total - r.perName})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PrintSummary writes a human-readable rendering of Summary to w, one line
// per name, or nothing if no warning was ever suppressed.
func (r *Registry) PrintSummary(w io.Writer) {
	for _, s := range r.Summary() {
		fmt.Fprintf(w, "%s: %d occurrences (%d suppressed)\n", s.Name, s.Total, s.Over)
	}
}

// Stderr is a convenience constructor for the common CLI case.
func Stderr(muted []string) *Registry {
	return New(os.Stderr, muted)
}
