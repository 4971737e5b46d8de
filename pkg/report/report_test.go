package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorittki/httprof/pkg/profiler"
)

func success(status int, size uint64, elapsed time.Duration) profiler.Outcome {
	return profiler.Outcome{Status: status, BodySize: size, Elapsed: elapsed}
}

func failed(phase profiler.Phase, detail string) profiler.Outcome {
	return profiler.Outcome{Failure: &profiler.Failure{Phase: phase, Detail: detail}}
}

func TestAggregate_AllSuccesses(t *testing.T) {
	outcomes := []profiler.Outcome{
		success(200, 120, 10*time.Millisecond),
		success(200, 80, 20*time.Millisecond),
		success(200, 200, 30*time.Millisecond),
		success(200, 150, 40*time.Millisecond),
	}

	r := Aggregate(outcomes, []byte("body"), true)

	assert.Equal(t, 4, r.Requests)
	assert.Equal(t, 100.0, r.ConnectedPct)
	assert.Equal(t, 0.0, r.ErrorStatusPct)
	assert.Empty(t, r.ErrorStatusCodes)

	require.True(t, r.HasSuccesses)
	assert.Equal(t, 10*time.Millisecond, r.Fastest)
	assert.Equal(t, 25*time.Millisecond, r.Mean)
	assert.Equal(t, 25*time.Millisecond, r.Median)
	assert.Equal(t, 40*time.Millisecond, r.Slowest)

	assert.Equal(t, uint64(80), r.SmallestSize)
	assert.Equal(t, uint64(200), r.LargestSize)

	assert.True(t, r.HasLongestBody)
	assert.Empty(t, r.Failures)
}

func TestAggregate_MedianOddCount(t *testing.T) {
	outcomes := []profiler.Outcome{
		success(200, 1, 10*time.Millisecond),
		success(200, 1, 20*time.Millisecond),
		success(200, 1, 30*time.Millisecond),
	}

	r := Aggregate(outcomes, nil, false)

	assert.Equal(t, 20*time.Millisecond, r.Median)
	assert.Equal(t, 20*time.Millisecond, r.Mean)
}

func TestAggregate_ErrorStatusPercentage(t *testing.T) {
	// Codes {200, 200, 404}: one of three successes is non-2xx.
	outcomes := []profiler.Outcome{
		success(200, 1, time.Millisecond),
		success(200, 1, time.Millisecond),
		success(404, 1, time.Millisecond),
	}

	r := Aggregate(outcomes, nil, false)

	assert.InDelta(t, 33.33, r.ErrorStatusPct, 0.04)
	assert.Equal(t, []int{404}, r.ErrorStatusCodes)
}

func TestAggregate_DistinctErrorCodesSorted(t *testing.T) {
	outcomes := []profiler.Outcome{
		success(500, 1, time.Millisecond),
		success(301, 1, time.Millisecond),
		success(500, 1, time.Millisecond),
		success(404, 1, time.Millisecond),
	}

	r := Aggregate(outcomes, nil, false)

	assert.Equal(t, []int{301, 404, 500}, r.ErrorStatusCodes)
	assert.Equal(t, 100.0, r.ErrorStatusPct)
}

func TestAggregate_MixedOutcomes(t *testing.T) {
	outcomes := []profiler.Outcome{
		success(200, 10, 10*time.Millisecond),
		failed(profiler.PhaseConnect, "no candidate was reachable"),
		failed(profiler.PhaseRead, "response read timed out"),
		success(200, 20, 30*time.Millisecond),
	}

	r := Aggregate(outcomes, nil, false)

	assert.Equal(t, 4, r.Requests)
	assert.Equal(t, 50.0, r.ConnectedPct)
	require.Len(t, r.Failures, 2)
	assert.Equal(t, profiler.PhaseConnect, r.Failures[0].Phase)
	assert.Equal(t, profiler.PhaseRead, r.Failures[1].Phase)

	// Timing over successes only.
	assert.Equal(t, 10*time.Millisecond, r.Fastest)
	assert.Equal(t, 30*time.Millisecond, r.Slowest)
}

func TestAggregate_NoSuccesses(t *testing.T) {
	outcomes := []profiler.Outcome{
		failed(profiler.PhaseResolve, "cannot resolve 'nope.invalid'"),
		failed(profiler.PhaseConnect, "no candidate was reachable"),
	}

	r := Aggregate(outcomes, nil, false)

	assert.Equal(t, 2, r.Requests)
	assert.Equal(t, 0.0, r.ConnectedPct)
	assert.Equal(t, 0.0, r.ErrorStatusPct)
	assert.False(t, r.HasSuccesses)
	assert.False(t, r.HasLongestBody)
	assert.Len(t, r.Failures, 2)
}

func TestAggregate_LongestBodyOnlyForMultiRequestRuns(t *testing.T) {
	single := Aggregate([]profiler.Outcome{
		success(200, 4, time.Millisecond),
	}, []byte("body"), true)
	assert.False(t, single.HasLongestBody)

	multi := Aggregate([]profiler.Outcome{
		success(200, 4, time.Millisecond),
		success(200, 4, time.Millisecond),
	}, []byte("body"), true)
	assert.True(t, multi.HasLongestBody)
	assert.Equal(t, []byte("body"), multi.LongestBody)
}

func TestReport_Render(t *testing.T) {
	outcomes := []profiler.Outcome{
		success(200, 100, 10*time.Millisecond),
		success(404, 300, 20*time.Millisecond),
		success(200, 150, 30*time.Millisecond),
		failed(profiler.PhaseConnect, "192.0.2.1:80: connection refused"),
	}

	r := Aggregate(outcomes, []byte("largest body"), true)

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()

	lines := []string{
		"Number of requests: 4",
		"Percentage succeeded connecting: 75%",
		"Percentage of successful responses with non-200 response codes (includes redirects, etc.): 33.3%",
		"Unique non-200 error codes encountered: {404}",
		"Fastest response time: 10ms",
		"Mean response time: 20ms",
		"Median response time: 20ms",
		"Slowest response time: 30ms",
		"Smallest size: 100 B",
		"Largest size: 300 B",
		"Connection errors encountered, if any: [connect: 192.0.2.1:80: connection refused]",
	}

	for _, line := range lines {
		assert.Contains(t, out, line+"\n")
	}

	// Field order is fixed.
	last := -1
	for _, line := range lines {
		i := strings.Index(out, line)
		require.GreaterOrEqual(t, i, 0)
		assert.Greater(t, i, last)
		last = i
	}

	assert.Contains(t, out, "largest body")
}

func TestReport_Render_NoSuccesses(t *testing.T) {
	r := Aggregate([]profiler.Outcome{
		failed(profiler.PhaseResolve, "cannot resolve 'nope.invalid'"),
	}, nil, false)

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "Percentage succeeded connecting: 0%")
	assert.Contains(t, out, "Fastest response time: n/a (no successful responses)")
	assert.Contains(t, out, "Smallest size: n/a (no successful responses)")
	assert.Contains(t, out, "resolve: cannot resolve 'nope.invalid'")
}
