package event

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	m := NewManual()
	var calls []string
	d := NewDebouncer(m, 300*time.Millisecond, func(v string) { calls = append(calls, v) })

	// Five input events, 10ms apart: all within 50ms.
	for _, v := range []string{"g", "go", "gol", "gola", "golan"} {
		d.Trigger(v)
		m.Advance(10 * time.Millisecond)
	}
	if len(calls) != 0 {
		t.Fatalf("calls before window elapsed = %d, want 0", len(calls))
	}

	m.Advance(300 * time.Millisecond)
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0] != "golan" {
		t.Errorf("value = %q, want last value %q", calls[0], "golan")
	}
	if d.Pending() {
		t.Error("debouncer should have nothing pending after firing")
	}
}

func TestDebouncerFiresExactlyAtWindow(t *testing.T) {
	m := NewManual()
	n := 0
	d := NewDebouncer(m, 300*time.Millisecond, func(string) { n++ })

	d.Trigger("ab")
	m.Advance(299 * time.Millisecond)
	if n != 0 {
		t.Fatalf("fired early")
	}
	m.Advance(time.Millisecond)
	if n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	m := NewManual()
	var calls []string
	d := NewDebouncer(m, 300*time.Millisecond, func(v string) { calls = append(calls, v) })

	d.Trigger("first")
	m.Advance(400 * time.Millisecond)
	d.Trigger("second")
	m.Advance(400 * time.Millisecond)

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestDebouncerCancel(t *testing.T) {
	m := NewManual()
	n := 0
	d := NewDebouncer(m, 300*time.Millisecond, func(string) { n++ })
	d.Trigger("x")
	d.Cancel()
	m.Advance(time.Second)
	if n != 0 {
		t.Errorf("cancelled call fired %d times", n)
	}
	if m.PendingTimers() != 0 {
		t.Errorf("pending timers = %d, want 0", m.PendingTimers())
	}
}

func TestThrottleOncePerFrame(t *testing.T) {
	m := NewManual()
	n := 0
	th := NewThrottle(m, func() { n++ })

	for i := 0; i < 50; i++ {
		th.Request()
	}
	if m.PendingFrames() != 1 {
		t.Fatalf("pending frames = %d, want 1", m.PendingFrames())
	}
	m.Frame()
	if n != 1 {
		t.Fatalf("runs = %d, want 1", n)
	}

	th.Request()
	th.Request()
	m.Frame()
	if n != 2 {
		t.Errorf("runs after second frame = %d, want 2", n)
	}
}

func TestManualFiresInDueOrder(t *testing.T) {
	m := NewManual()
	var order []string
	m.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	m.AfterFunc(10*time.Millisecond, func() {
		order = append(order, "a")
		m.AfterFunc(5*time.Millisecond, func() { order = append(order, "b") })
	})
	m.Advance(50 * time.Millisecond)

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
	if m.Now() != 50*time.Millisecond {
		t.Errorf("now = %v, want 50ms", m.Now())
	}
}

func TestHandlersDispatch(t *testing.T) {
	h := NewHandlers()
	var got []string
	h.On(QueryChange, func(ev Event) { got = append(got, "1:"+ev.Value) })
	h.On(QueryChange, func(ev Event) { got = append(got, "2:"+ev.Value) })

	if !h.Dispatch(Event{Name: QueryChange, Value: "go"}) {
		t.Fatal("expected handlers for onQueryChange")
	}
	if h.Dispatch(Event{Name: Scroll}) {
		t.Error("no handlers registered for onScroll")
	}
	if len(got) != 2 || got[0] != "1:go" || got[1] != "2:go" {
		t.Errorf("dispatch order = %v", got)
	}
}

func TestParseName(t *testing.T) {
	if n, err := ParseName("onScroll"); err != nil || n != Scroll {
		t.Errorf("ParseName(onScroll) = %q, %v", n, err)
	}
	if _, err := ParseName("onHover"); err == nil {
		t.Error("expected error for unknown event")
	}
}

func TestLoopDebounceRealTime(t *testing.T) {
	loop := NewLoop(LoopOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var mu sync.Mutex
	var calls []string
	done := make(chan struct{}, 4)
	d := NewDebouncer(loop, 300*time.Millisecond, func(v string) {
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
		done <- struct{}{}
	})

	for _, v := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		v := v
		loop.Post(func() { d.Trigger(v) })
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
	// Give any stray extra call a chance to show up.
	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("calls = %v, want exactly one", calls)
	}
	if calls[0] != "abcde" {
		t.Errorf("value = %q, want abcde", calls[0])
	}
}

func TestLoopRunsTasksInOrder(t *testing.T) {
	loop := NewLoop(LoopOptions{FrameInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	results := make(chan int, 3)
	for i := 0; i < 3; i++ {
		i := i
		loop.Post(func() { results <- i })
	}
	for want := 0; want < 3; want++ {
		select {
		case got := <-results:
			if got != want {
				t.Fatalf("task %d ran out of order (got %d)", want, got)
			}
		case <-time.After(time.Second):
			t.Fatal("task never ran")
		}
	}

	frame := make(chan struct{})
	loop.RequestFrame(func() { close(frame) })
	select {
	case <-frame:
	case <-time.After(time.Second):
		t.Fatal("frame callback never ran")
	}
}

func TestLoopStoppedTimerNeverRuns(t *testing.T) {
	loop := NewLoop(LoopOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	fired := make(chan struct{}, 1)
	timer := loop.AfterFunc(20*time.Millisecond, func() { fired <- struct{}{} })
	if !timer.Stop() {
		t.Fatal("Stop should report the timer as pending")
	}
	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}
