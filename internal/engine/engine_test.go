package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"secmon/internal/events"
	"secmon/internal/rules"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// fakeSource is an in-memory event source.
type fakeSource struct {
	mu       sync.Mutex
	payloads []string
	pops     int
}

func (f *fakeSource) Pop(ctx context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pops++
	if len(f.payloads) == 0 {
		return "", false, nil
	}
	payload := f.payloads[0]
	f.payloads = f.payloads[1:]
	return payload, true, nil
}

func (f *fakeSource) popCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pops
}

// fakeStore records inserted drafts and can fail selected inserts.
type fakeStore struct {
	mu      sync.Mutex
	drafts  []events.AlertDraft
	nextID  int
	failFor map[string]bool // rule name -> fail insert
}

func (f *fakeStore) InsertAlert(ctx context.Context, draft events.AlertDraft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[draft.RuleName] {
		return "", fmt.Errorf("storage unavailable")
	}
	f.nextID++
	f.drafts = append(f.drafts, draft)
	return fmt.Sprintf("alert-%d", f.nextID), nil
}

func (f *fakeStore) recorded() []events.AlertDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.AlertDraft, len(f.drafts))
	copy(out, f.drafts)
	return out
}

// fakePublisher captures published alerts.
type fakePublisher struct {
	mu        sync.Mutex
	published []*events.AlertCreated
	failAll   bool
}

func (f *fakePublisher) Publish(ctx context.Context, created *events.AlertCreated) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return fmt.Errorf("broker unavailable")
	}
	f.published = append(f.published, created)
	return nil
}

func failedLoginRule() rules.Rule {
	return rules.Rule{
		RuleID:   "rule-1",
		Name:     "Failed logins rule",
		Kind:     rules.KindActionMatch,
		Field:    "action",
		Value:    "login_failure",
		Severity: "CRITICAL",
		Enabled:  true,
	}
}

func newTestEngine(source *fakeSource, store *fakeStore, ruleSet []rules.Rule, opts ...Option) *Engine {
	opts = append(opts, withClock(func() time.Time { return fixedNow }))
	return New(source, store, ruleSet, opts...)
}

func TestProcessOne_MatchingEvent(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(&fakeSource{}, store, []rules.Rule{failedLoginRule()})

	payload := `{"action": "login_failure", "username": "alice", "source_ip": "192.168.1.10", "timestamp": "2025-12-23T18:15:00Z"}`
	result := e.processOne(context.Background(), payload)

	if result.dropped {
		t.Error("processOne() dropped a valid payload")
	}
	if result.alertsRecorded != 1 {
		t.Fatalf("processOne() recorded %d alerts, want 1", result.alertsRecorded)
	}

	drafts := store.recorded()
	if len(drafts) != 1 {
		t.Fatalf("store has %d drafts, want 1", len(drafts))
	}
	draft := drafts[0]
	if draft.RuleName != "Failed logins rule" {
		t.Errorf("RuleName = %q, want %q", draft.RuleName, "Failed logins rule")
	}
	if draft.Severity != "CRITICAL" {
		t.Errorf("Severity = %q, want %q", draft.Severity, "CRITICAL")
	}
	if draft.Timestamp != "2025-12-23T18:15:00Z" {
		t.Errorf("Timestamp = %q, want %q", draft.Timestamp, "2025-12-23T18:15:00Z")
	}
	if draft.Username != "alice" || draft.SourceIP != "192.168.1.10" {
		t.Errorf("copied fields = (%q, %q), want (alice, 192.168.1.10)", draft.Username, draft.SourceIP)
	}
}

func TestProcessOne_NonMatchingEvent(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(&fakeSource{}, store, []rules.Rule{failedLoginRule()})

	payload := `{"action": "login_success", "username": "alice", "source_ip": "192.168.1.10"}`
	result := e.processOne(context.Background(), payload)

	if result.alertsRecorded != 0 {
		t.Errorf("processOne() recorded %d alerts, want 0", result.alertsRecorded)
	}
	if len(store.recorded()) != 0 {
		t.Errorf("store has %d drafts, want 0", len(store.recorded()))
	}
}

func TestProcessOne_MalformedPayload(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(&fakeSource{}, store, []rules.Rule{failedLoginRule()})

	result := e.processOne(context.Background(), "not json at all")

	if !result.dropped {
		t.Error("processOne() did not drop a malformed payload")
	}
	if len(store.recorded()) != 0 {
		t.Errorf("store has %d drafts, want 0", len(store.recorded()))
	}
}

func TestProcessOne_DuplicateEventRecordsTwice(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(&fakeSource{}, store, []rules.Rule{failedLoginRule()})

	payload := `{"action": "login_failure", "username": "alice", "source_ip": "192.168.1.10"}`
	e.processOne(context.Background(), payload)
	e.processOne(context.Background(), payload)

	// No dedup: popping the same event twice records two alerts.
	if got := len(store.recorded()); got != 2 {
		t.Errorf("store has %d drafts, want 2", got)
	}
}

func TestProcessOne_InsertFailureDoesNotBlockOthers(t *testing.T) {
	first := failedLoginRule()
	second := rules.Rule{
		RuleID:   "rule-2",
		Name:     "Alice activity rule",
		Kind:     rules.KindActionMatch,
		Field:    "username",
		Value:    "alice",
		Severity: "MEDIUM",
		Enabled:  true,
	}
	store := &fakeStore{failFor: map[string]bool{"Failed logins rule": true}}
	e := newTestEngine(&fakeSource{}, store, []rules.Rule{first, second})

	payload := `{"action": "login_failure", "username": "alice"}`
	result := e.processOne(context.Background(), payload)

	if result.alertErrors != 1 {
		t.Errorf("processOne() alertErrors = %d, want 1", result.alertErrors)
	}
	if result.alertsRecorded != 1 {
		t.Errorf("processOne() alertsRecorded = %d, want 1", result.alertsRecorded)
	}
	drafts := store.recorded()
	if len(drafts) != 1 || drafts[0].RuleName != "Alice activity rule" {
		t.Errorf("store drafts = %+v, want only the second rule's alert", drafts)
	}
}

func TestProcessOne_PublishesCreatedAlerts(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	e := newTestEngine(&fakeSource{}, store, []rules.Rule{failedLoginRule()}, WithPublisher(pub))

	payload := `{"action": "login_failure", "username": "alice", "source_ip": "192.168.1.10", "timestamp": "2025-12-23T18:15:00Z"}`
	e.processOne(context.Background(), payload)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.published) != 1 {
		t.Fatalf("published %d alerts, want 1", len(pub.published))
	}
	created := pub.published[0]
	if created.AlertID != "alert-1" {
		t.Errorf("AlertID = %q, want %q", created.AlertID, "alert-1")
	}
	if created.Status != "open" {
		t.Errorf("Status = %q, want %q", created.Status, "open")
	}
	if created.RuleName != "Failed logins rule" {
		t.Errorf("RuleName = %q, want %q", created.RuleName, "Failed logins rule")
	}
}

func TestProcessOne_PublishFailureKeepsAlert(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{failAll: true}
	e := newTestEngine(&fakeSource{}, store, []rules.Rule{failedLoginRule()}, WithPublisher(pub))

	payload := `{"action": "login_failure"}`
	result := e.processOne(context.Background(), payload)

	if result.alertsRecorded != 1 {
		t.Errorf("alertsRecorded = %d, want 1", result.alertsRecorded)
	}
	if result.alertErrors != 1 {
		t.Errorf("alertErrors = %d, want 1", result.alertErrors)
	}
	if len(store.recorded()) != 1 {
		t.Errorf("store has %d drafts, want 1 despite publish failure", len(store.recorded()))
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestRun_ProcessesQueueInOrder(t *testing.T) {
	source := &fakeSource{payloads: []string{
		`{"action": "login_failure", "username": "alice"}`,
		`{"action": "login_success", "username": "bob"}`,
		`{"action": "login_failure", "username": "carol"}`,
	}}
	store := &fakeStore{}
	e := newTestEngine(source, store, []rules.Rule{failedLoginRule()},
		WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	if !waitFor(t, time.Second, func() bool { return len(store.recorded()) == 2 }) {
		t.Fatalf("store has %d drafts, want 2", len(store.recorded()))
	}
	cancel()
	<-done

	drafts := store.recorded()
	if drafts[0].Username != "alice" || drafts[1].Username != "carol" {
		t.Errorf("drafts order = (%q, %q), want (alice, carol)", drafts[0].Username, drafts[1].Username)
	}
}

func TestRun_EmptyQueuePollsWithoutAlerts(t *testing.T) {
	source := &fakeSource{}
	store := &fakeStore{}
	e := newTestEngine(source, store, []rules.Rule{failedLoginRule()},
		WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	// The loop keeps re-polling while the queue stays empty.
	if !waitFor(t, time.Second, func() bool { return source.popCount() >= 3 }) {
		t.Fatalf("source popped %d times, want >= 3", source.popCount())
	}
	cancel()
	<-done

	if len(store.recorded()) != 0 {
		t.Errorf("store has %d drafts, want 0", len(store.recorded()))
	}
}

func TestRun_ContinuesAfterMalformedEvent(t *testing.T) {
	source := &fakeSource{payloads: []string{
		"totally broken {{{",
		`{"action": "login_failure", "username": "alice", "source_ip": "192.168.1.10", "timestamp": "2025-12-23T18:15:00Z"}`,
	}}
	store := &fakeStore{}
	e := newTestEngine(source, store, []rules.Rule{failedLoginRule()},
		WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	if !waitFor(t, time.Second, func() bool { return len(store.recorded()) == 1 }) {
		t.Fatalf("store has %d drafts, want 1", len(store.recorded()))
	}
	cancel()
	<-done

	draft := store.recorded()[0]
	if draft.Username != "alice" {
		t.Errorf("Username = %q, want %q", draft.Username, "alice")
	}
	if draft.Timestamp != "2025-12-23T18:15:00Z" {
		t.Errorf("Timestamp = %q, want %q", draft.Timestamp, "2025-12-23T18:15:00Z")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	source := &fakeSource{}
	e := newTestEngine(source, &fakeStore{}, nil, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancellation", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after context cancellation")
	}
}
