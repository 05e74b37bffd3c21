package metrics

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	tests := []struct {
		name   string
		method string
		route  string
		status int
	}{
		{name: "list ok", method: "GET", route: "GET /movies", status: 200},
		{name: "get not found", method: "GET", route: "GET /movies/{movieId}", status: 404},
		{name: "unmatched", method: "POST", route: "unmatched", status: 405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := HTTPRequestsTotal.WithLabelValues(tt.method, tt.route, strconv.Itoa(tt.status))
			before := testutil.ToFloat64(counter)

			RecordHTTPRequest(tt.method, tt.route, tt.status, 15*time.Millisecond)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("counter delta = %v, want 1", got)
			}
		})
	}
}

func TestTrackStream(t *testing.T) {
	before := testutil.ToFloat64(ActiveStreams)

	TrackStream(true)
	TrackStream(true)
	if got := testutil.ToFloat64(ActiveStreams) - before; got != 2 {
		t.Fatalf("after two opens delta = %v, want 2", got)
	}

	TrackStream(false)
	TrackStream(false)
	if got := testutil.ToFloat64(ActiveStreams) - before; got != 0 {
		t.Fatalf("after two closes delta = %v, want 0", got)
	}
}

func TestRecordStreamEvent(t *testing.T) {
	before := testutil.ToFloat64(StreamEventsTotal)
	RecordStreamEvent()
	RecordStreamEvent()
	RecordStreamEvent()
	if got := testutil.ToFloat64(StreamEventsTotal) - before; got != 3 {
		t.Errorf("events delta = %v, want 3", got)
	}
}

func TestRecordSeedMovie(t *testing.T) {
	ok := SeedMoviesTotal.WithLabelValues(ResultOK)
	failed := SeedMoviesTotal.WithLabelValues(ResultError)
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordSeedMovie(nil)
	RecordSeedMovie(errors.New("insert failed"))
	RecordSeedMovie(nil)

	if got := testutil.ToFloat64(ok) - okBefore; got != 2 {
		t.Errorf("ok delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(failed) - failedBefore; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestRecordSyncRun(t *testing.T) {
	failed := SyncRunsTotal.WithLabelValues(ResultError)
	before := testutil.ToFloat64(failed)

	RecordSyncRun(errors.New("upload failed"))

	if got := testutil.ToFloat64(failed) - before; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}
