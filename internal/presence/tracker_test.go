package presence

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

// stepClock advances by a fixed step on every call to Now.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}
}

func TestOpen_BasicTracking(t *testing.T) {
	tr := NewWithClock(newStepClock())

	tr.Open(Stream{SubscriptionID: "sub-1", MovieID: "m-1", RemoteAddr: "10.0.0.1:5000"})

	roster := tr.Roster("")
	if len(roster) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(roster))
	}

	e := roster[0]
	if e.SubscriptionID != "sub-1" {
		t.Errorf("expected subscription sub-1, got %s", e.SubscriptionID)
	}
	if e.MovieID != "m-1" {
		t.Errorf("expected movie m-1, got %s", e.MovieID)
	}
	if e.RemoteAddr != "10.0.0.1:5000" {
		t.Errorf("expected remote addr 10.0.0.1:5000, got %s", e.RemoteAddr)
	}
	if e.EventsSent != 0 {
		t.Errorf("expected events_sent 0, got %d", e.EventsSent)
	}
	if e.LastEventAt != nil {
		t.Errorf("expected no last_event_at, got %v", *e.LastEventAt)
	}
	if e.DurationSecs != 1 {
		t.Errorf("expected duration 1s, got %v", e.DurationSecs)
	}
}

func TestOpen_IgnoresEmptyID(t *testing.T) {
	tr := New()

	tr.Open(Stream{MovieID: "m-1"})

	if tr.Len() != 0 {
		t.Fatalf("expected 0 entries for empty id, got %d", tr.Len())
	}
}

func TestRecordEvent_CountsEvents(t *testing.T) {
	tr := NewWithClock(newStepClock())

	tr.RecordEvent("sub-unknown")
	tr.Open(Stream{SubscriptionID: "sub-1", MovieID: "m-1"})
	tr.RecordEvent("sub-1")
	tr.RecordEvent("sub-1")
	tr.RecordEvent("sub-1")

	roster := tr.Roster("")
	if len(roster) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(roster))
	}
	e := roster[0]
	if e.EventsSent != 3 {
		t.Errorf("expected 3 events, got %d", e.EventsSent)
	}
	if e.LastEventAt == nil || !e.LastEventAt.After(e.OpenedAt) {
		t.Errorf("expected last_event_at after opened_at, got %v <= %v", e.LastEventAt, e.OpenedAt)
	}
	if e.IdleSecs != 1 {
		t.Errorf("expected idle 1s, got %v", e.IdleSecs)
	}
}

func TestClose_ReturnsSummary(t *testing.T) {
	tr := NewWithClock(newStepClock())

	tr.Open(Stream{SubscriptionID: "sub-1", MovieID: "m-1"}) // t=1
	tr.RecordEvent("sub-1")                                  // t=2
	tr.RecordEvent("sub-1")                                  // t=3

	sum, ok := tr.Close("sub-1") // t=4
	if !ok {
		t.Fatal("expected Close to find sub-1")
	}
	if sum.MovieID != "m-1" {
		t.Errorf("expected movie m-1, got %s", sum.MovieID)
	}
	if sum.EventsSent != 2 {
		t.Errorf("expected 2 events, got %d", sum.EventsSent)
	}
	if sum.Duration != 3*time.Second {
		t.Errorf("expected duration 3s, got %v", sum.Duration)
	}
	if tr.Len() != 0 {
		t.Errorf("expected empty roster after close, got %d", tr.Len())
	}

	if _, ok := tr.Close("sub-1"); ok {
		t.Error("expected second Close to report not found")
	}
}

func TestRoster_SortedByMostRecent(t *testing.T) {
	tr := NewWithClock(newStepClock())

	tr.Open(Stream{SubscriptionID: "first", MovieID: "m-1"})
	tr.Open(Stream{SubscriptionID: "second", MovieID: "m-1"})
	tr.Open(Stream{SubscriptionID: "third", MovieID: "m-2"})

	roster := tr.Roster("")
	if len(roster) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(roster))
	}
	if roster[0].SubscriptionID != "third" {
		t.Errorf("expected third first, got %s", roster[0].SubscriptionID)
	}
	if roster[2].SubscriptionID != "first" {
		t.Errorf("expected first last, got %s", roster[2].SubscriptionID)
	}
}

func TestRoster_FilterByMovie(t *testing.T) {
	tr := NewWithClock(newStepClock())

	tr.Open(Stream{SubscriptionID: "a", MovieID: "m-1"})
	tr.Open(Stream{SubscriptionID: "b", MovieID: "m-2"})
	tr.Open(Stream{SubscriptionID: "c", MovieID: "m-1"})

	roster := tr.Roster("m-1")
	if len(roster) != 2 {
		t.Fatalf("expected 2 entries for m-1, got %d", len(roster))
	}
	for _, e := range roster {
		if e.MovieID != "m-1" {
			t.Errorf("unexpected movie %s in filtered roster", e.MovieID)
		}
	}
}

func TestTracker_ConcurrentUse(t *testing.T) {
	tr := New()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i))
			tr.Open(Stream{SubscriptionID: id, MovieID: "m-1"})
			for range 10 {
				tr.RecordEvent(id)
				_ = tr.Roster("")
			}
			tr.Close(id)
		}()
	}
	wg.Wait()

	if tr.Len() != 0 {
		t.Fatalf("expected empty roster, got %d", tr.Len())
	}
}

func TestEntryJSON_LastEventAtOmittedUntilFirstEvent(t *testing.T) {
	tr := NewWithClock(newStepClock())
	tr.Open(Stream{SubscriptionID: "sub-1", MovieID: "m-1"})

	data, err := json.Marshal(tr.Roster(""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "last_event_at") {
		t.Errorf("last_event_at should be omitted before any event: %s", data)
	}

	tr.RecordEvent("sub-1")
	data, err = json.Marshal(tr.Roster(""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"last_event_at":"`) {
		t.Errorf("last_event_at missing after an event: %s", data)
	}
}
