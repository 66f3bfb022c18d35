package collection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeRemote is an in-memory remote collection keyed by scope.
type fakeRemote struct {
	mu      sync.Mutex
	data    map[string][]string
	fetches int
	log     []string
	failOn  map[string]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{data: map[string][]string{}, failOn: map[string]error{}}
}

func (f *fakeRemote) fetch(ctx context.Context, scope string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	f.log = append(f.log, "fetch:"+scope)
	if err := f.failOn[scope]; err != nil {
		return nil, err
	}
	return append([]string(nil), f.data[scope]...), nil
}

func (f *fakeRemote) add(scope, v string) func(context.Context) error {
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.log = append(f.log, "add:"+v)
		f.data[scope] = append(f.data[scope], v)
		return nil
	}
}

func TestMount_LoadsInServerOrder(t *testing.T) {
	t.Parallel()
	remote := newFakeRemote()
	remote.data["i1"] = []string{"b", "a", "c"}
	rec := &Recorder{}
	s := NewStore("careers", remote.fetch, WithNotifier(rec))

	if err := s.Mount(context.Background(), "i1"); err != nil {
		t.Fatalf("mount: %v", err)
	}
	snap := s.Snapshot()
	if snap.State != Ready || len(snap.Items) != 3 || snap.Items[0] != "b" || snap.Items[2] != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Scope != "i1" {
		t.Fatalf("scope %q", snap.Scope)
	}
	if len(rec.All()) != 0 {
		t.Fatalf("no notifications expected, got %+v", rec.All())
	}
}

func TestMount_EmptyCollectionIsReady(t *testing.T) {
	t.Parallel()
	s := NewStore("knowledge", newFakeRemote().fetch)
	if err := s.Mount(context.Background(), "i1"); err != nil {
		t.Fatal(err)
	}
	if snap := s.Snapshot(); !snap.Empty() {
		t.Fatalf("expected ready+empty, got %+v", snap)
	}
}

func TestFetchFailure_EmptiesAndNotifiesOnce(t *testing.T) {
	t.Parallel()
	remote := newFakeRemote()
	remote.data["i1"] = []string{"a"}
	rec := &Recorder{}
	s := NewStore("careers", remote.fetch, WithNotifier(rec))
	if err := s.Mount(context.Background(), "i1"); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("connection refused")
	remote.failOn["i1"] = boom
	if err := s.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	snap := s.Snapshot()
	if snap.State != Failed || len(snap.Items) != 0 || !errors.Is(snap.Err, boom) {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if rec.Count(LevelError) != 1 {
		t.Fatalf("expected exactly one error notification, got %+v", rec.All())
	}
	if remote.fetches != 2 {
		t.Fatalf("failed fetch must not be retried, fetches=%d", remote.fetches)
	}
}

func TestMutate_SuccessNotifiesThenRefetches(t *testing.T) {
	t.Parallel()
	remote := newFakeRemote()
	rec := &Recorder{}
	s := NewStore("careers", remote.fetch, WithNotifier(rec))
	_ = s.Mount(context.Background(), "i1")

	err := s.Mutate(context.Background(), Mutation{Op: "add career", Success: "Career added", Do: remote.add("i1", "swordsman")})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	snap := s.Snapshot()
	if snap.State != Ready || len(snap.Items) != 1 || snap.Items[0] != "swordsman" {
		t.Fatalf("store must equal server after mutation: %+v", snap)
	}
	got := rec.All()
	if len(got) != 1 || got[0].Level != LevelSuccess || got[0].Message != "Career added" {
		t.Fatalf("unexpected notifications: %+v", got)
	}
	want := []string{"fetch:i1", "add:swordsman", "fetch:i1"}
	if len(remote.log) != len(want) {
		t.Fatalf("unexpected call log %v", remote.log)
	}
	for i := range want {
		if remote.log[i] != want[i] {
			t.Fatalf("refresh must follow the mutation: %v", remote.log)
		}
	}
}

func TestMutate_FailureLeavesStoreUntouched(t *testing.T) {
	t.Parallel()
	remote := newFakeRemote()
	remote.data["i1"] = []string{"a", "b"}
	rec := &Recorder{}
	s := NewStore("careers", remote.fetch, WithNotifier(rec))
	_ = s.Mount(context.Background(), "i1")
	before := s.Snapshot()

	boom := errors.New("Career already assigned to this identity")
	err := s.Mutate(context.Background(), Mutation{Op: "add career", Success: "Career added", Do: func(context.Context) error { return boom }})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}
	after := s.Snapshot()
	if after.State != before.State || len(after.Items) != len(before.Items) {
		t.Fatalf("store changed on failure: before=%+v after=%+v", before, after)
	}
	if remote.fetches != 1 {
		t.Fatalf("failed mutation must not refetch, fetches=%d", remote.fetches)
	}
	got := rec.All()
	if len(got) != 1 || got[0].Level != LevelError || got[0].Message != boom.Error() {
		t.Fatalf("expected one error notification, got %+v", got)
	}
}

// blockingRemote lets a test hold individual fetches open.
type blockingRemote struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	data    map[string][]string
	entered map[string]bool
}

func (b *blockingRemote) fetch(ctx context.Context, scope string) ([]string, error) {
	b.mu.Lock()
	gate := b.gates[scope]
	items := b.data[scope]
	if b.entered == nil {
		b.entered = map[string]bool{}
	}
	b.entered[scope] = true
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return items, nil
}

func (b *blockingRemote) fetching(scope string) func() bool {
	return func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.entered[scope]
	}
}

func TestMount_StaleScopeResultDiscarded(t *testing.T) {
	t.Parallel()
	gateA := make(chan struct{})
	remote := &blockingRemote{
		gates: map[string]chan struct{}{"A": gateA},
		data:  map[string][]string{"A": {"from-A"}, "B": {"from-B"}},
	}
	s := NewStore("careers", remote.fetch)

	doneA := make(chan error, 1)
	go func() { doneA <- s.Mount(context.Background(), "A") }()
	waitFor(t, remote.fetching("A"))

	if err := s.Mount(context.Background(), "B"); err != nil {
		t.Fatal(err)
	}
	close(gateA)
	if err := <-doneA; err != nil {
		t.Fatalf("stale mount should not error: %v", err)
	}
	snap := s.Snapshot()
	if snap.Scope != "B" || len(snap.Items) != 1 || snap.Items[0] != "from-B" {
		t.Fatalf("late response for A overwrote B: %+v", snap)
	}
}

func TestRelease_LateResponseIgnored(t *testing.T) {
	t.Parallel()
	gate := make(chan struct{})
	remote := &blockingRemote{
		gates: map[string]chan struct{}{"A": gate},
		data:  map[string][]string{"A": {"x"}},
	}
	var notified int32
	s := NewStore("careers", remote.fetch)
	unsub := s.Subscribe(func(Snapshot[string]) { atomic.AddInt32(&notified, 1) })
	defer unsub()

	done := make(chan error, 1)
	go func() { done <- s.Mount(context.Background(), "A") }()
	waitFor(t, remote.fetching("A"))

	s.Release()
	before := atomic.LoadInt32(&notified)
	close(gate)
	<-done

	snap := s.Snapshot()
	if !snap.Released || len(snap.Items) != 0 {
		t.Fatalf("released store was written: %+v", snap)
	}
	if atomic.LoadInt32(&notified) != before {
		t.Fatal("listeners must not fire after release")
	}
	if err := s.Refresh(context.Background()); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased, got %v", err)
	}
	if err := s.Mutate(context.Background(), Mutation{Do: func(context.Context) error { return nil }}); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased, got %v", err)
	}
}

func TestRefresh_SupersededFetchDiscarded(t *testing.T) {
	t.Parallel()
	var (
		mu    sync.Mutex
		calls int
	)
	first := make(chan struct{})
	fetch := func(ctx context.Context, scope string) ([]string, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 2 {
			<-first
			return []string{"old"}, nil
		}
		return []string{"new"}, nil
	}
	s := NewStore("identities", fetch)
	_ = s.Mount(context.Background(), "c1")

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	waitFor(t, func() bool { mu.Lock(); defer mu.Unlock(); return calls == 2 })

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	close(first)
	<-done

	if items := s.Items(); len(items) != 1 || items[0] != "new" {
		t.Fatalf("older fetch overwrote newer: %v", items)
	}
}

func TestSubscribe_SeesLoadingThenReady(t *testing.T) {
	t.Parallel()
	remote := newFakeRemote()
	remote.data["i1"] = []string{"a"}
	s := NewStore("knowledge", remote.fetch)

	var states []State
	unsub := s.Subscribe(func(snap Snapshot[string]) { states = append(states, snap.State) })
	_ = s.Mount(context.Background(), "i1")
	unsub()
	_ = s.Refresh(context.Background())

	if len(states) != 2 || states[0] != Loading || states[1] != Ready {
		t.Fatalf("unexpected transitions %v", states)
	}
}

func TestSnapshot_ItemsAreCopies(t *testing.T) {
	t.Parallel()
	remote := newFakeRemote()
	remote.data["i1"] = []string{"a"}
	s := NewStore("knowledge", remote.fetch)
	_ = s.Mount(context.Background(), "i1")

	items := s.Items()
	items[0] = "mutated"
	if s.Items()[0] != "a" {
		t.Fatal("snapshot leaked internal slice")
	}
}

func TestStore_WithDispatcherSerialisesMutations(t *testing.T) {
	t.Parallel()
	d := NewDispatcher(dispatcherConfig())
	defer func() { _ = d.Close() }()

	remote := newFakeRemote()
	s := NewStore("careers", remote.fetch, WithDispatcher(d))
	if err := s.Mount(context.Background(), "i1"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for _, v := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			_ = s.Mutate(context.Background(), Mutation{Op: "add", Do: remote.add("i1", v)})
		}(v)
	}
	wg.Wait()

	if got := len(s.Items()); got != 4 {
		t.Fatalf("expected 4 items after serialised mutations, got %d", got)
	}
	// Every mutation is immediately followed by its own refresh.
	remote.mu.Lock()
	defer remote.mu.Unlock()
	for i, entry := range remote.log[1:] {
		isAdd := len(entry) > 4 && entry[:4] == "add:"
		if (i%2 == 0) != isAdd {
			t.Fatalf("mutations interleaved: %v", remote.log)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
