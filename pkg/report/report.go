// Package report reduces collected attempt outcomes into the final
// profile report.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/dkorittki/httprof/pkg/profiler"
)

// Report is the read-only aggregate over all outcomes of one run.
// Timing and size fields are only meaningful when HasSuccesses is set:
// a run without a single completed response reports them as absent
// rather than as zero.
type Report struct {
	// Requests is the number of attempts executed.
	Requests int

	// ConnectedPct is the share of attempts that completed, 0..100.
	ConnectedPct float64

	// ErrorStatusPct is the share of completed attempts carrying a
	// non-2xx status, computed over successes only. Zero when there
	// are no successes.
	ErrorStatusPct float64

	// ErrorStatusCodes are the distinct non-2xx codes, ascending.
	ErrorStatusCodes []int

	HasSuccesses bool

	Fastest time.Duration
	Mean    time.Duration
	Median  time.Duration
	Slowest time.Duration

	SmallestSize uint64
	LargestSize  uint64

	// Failures lists every failed attempt in completion order.
	Failures []profiler.Failure

	// LongestBody is the retained largest success body. It is only
	// surfaced for multi-request runs.
	LongestBody    []byte
	HasLongestBody bool
}

// Aggregate reduces outcomes plus the separately retained longest body
// into a Report. It never fails: a run where every attempt failed
// yields 0% success, an empty timing section and a populated failure
// list.
func Aggregate(outcomes []profiler.Outcome, longestBody []byte, hasLongest bool) *Report {
	r := &Report{Requests: len(outcomes)}

	var (
		durations []float64
		sizes     []float64
		errCodes  = map[int]struct{}{}
		successes int
		badStatus int
	)

	for _, o := range outcomes {
		if !o.OK() {
			r.Failures = append(r.Failures, *o.Failure)
			continue
		}

		successes++
		durations = append(durations, float64(o.Elapsed))
		sizes = append(sizes, float64(o.BodySize))

		if o.ErrorStatus() {
			badStatus++
			errCodes[o.Status] = struct{}{}
		}
	}

	if r.Requests > 0 {
		r.ConnectedPct = float64(successes) / float64(r.Requests) * 100
	}
	if successes > 0 {
		r.ErrorStatusPct = float64(badStatus) / float64(successes) * 100
	}

	for code := range errCodes {
		r.ErrorStatusCodes = append(r.ErrorStatusCodes, code)
	}
	sort.Ints(r.ErrorStatusCodes)

	if successes > 0 {
		r.HasSuccesses = true
		r.Fastest = durationStat(stats.Min, durations)
		r.Mean = durationStat(stats.Mean, durations)
		r.Median = durationStat(stats.Median, durations)
		r.Slowest = durationStat(stats.Max, durations)

		smallest, _ := stats.Min(sizes)
		largest, _ := stats.Max(sizes)
		r.SmallestSize = uint64(smallest)
		r.LargestSize = uint64(largest)
	}

	// For a single request the size extremes already describe the one
	// body; the representative body slot is for multi-request runs.
	if hasLongest && len(outcomes) > 1 {
		r.LongestBody = longestBody
		r.HasLongestBody = true
	}

	return r
}

func durationStat(fn func(stats.Float64Data) (float64, error), data []float64) time.Duration {
	v, err := fn(data)
	if err != nil {
		return 0
	}
	return time.Duration(math.Round(v))
}

// Render writes the report in its fixed field order.
func (r *Report) Render(w io.Writer) {
	if r.HasLongestBody {
		fmt.Fprintf(w, "The following is the longest response body received, which we take as representative:\n\n%s\n\n", r.LongestBody)
	}

	fmt.Fprintf(w, "Number of requests: %d\n", r.Requests)
	fmt.Fprintf(w, "Percentage succeeded connecting: %s%%\n", formatPct(r.ConnectedPct))
	fmt.Fprintf(w, "Percentage of successful responses with non-200 response codes (includes redirects, etc.): %s%%\n", formatPct(r.ErrorStatusPct))
	fmt.Fprintf(w, "Unique non-200 error codes encountered: %s\n", formatCodes(r.ErrorStatusCodes))

	writeDuration(w, "Fastest response time", r.Fastest, r.HasSuccesses)
	writeDuration(w, "Mean response time", r.Mean, r.HasSuccesses)
	writeDuration(w, "Median response time", r.Median, r.HasSuccesses)
	writeDuration(w, "Slowest response time", r.Slowest, r.HasSuccesses)

	writeSize(w, "Smallest size", r.SmallestSize, r.HasSuccesses)
	writeSize(w, "Largest size", r.LargestSize, r.HasSuccesses)

	fmt.Fprintf(w, "Connection errors encountered, if any: %s\n", formatFailures(r.Failures))
}

func writeDuration(w io.Writer, label string, d time.Duration, present bool) {
	if !present {
		fmt.Fprintf(w, "%s: n/a (no successful responses)\n", label)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, d)
}

func writeSize(w io.Writer, label string, size uint64, present bool) {
	if !present {
		fmt.Fprintf(w, "%s: n/a (no successful responses)\n", label)
		return
	}
	fmt.Fprintf(w, "%s: %d B\n", label, size)
}

func formatPct(pct float64) string {
	return strconv.FormatFloat(math.Round(pct*10)/10, 'f', -1, 64)
}

func formatCodes(codes []int) string {
	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		parts = append(parts, strconv.Itoa(c))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatFailures(failures []profiler.Failure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, f.String())
	}
	return "[" + strings.Join(parts, "; ") + "]"
}
