package session

import (
	"sort"
	"sync"
	"time"
)

// Task is a scheduled callback. Stop is idempotent and safe to call from
// inside the callback itself.
type Task interface {
	Stop()
}

// Scheduler runs callbacks later. Implementations never invoke fn from
// inside Every or After.
type Scheduler interface {
	// Every calls fn each interval d until the task is stopped.
	Every(d time.Duration, fn func()) Task
	// After calls fn once after d unless the task is stopped first.
	After(d time.Duration, fn func()) Task
}

// ClockScheduler runs callbacks on their own goroutines via time.AfterFunc.
type ClockScheduler struct{}

type clockTask struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func (t *clockTask) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTask) live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

func (ClockScheduler) After(d time.Duration, fn func()) Task {
	t := &clockTask{}
	t.mu.Lock()
	t.timer = time.AfterFunc(d, func() {
		if t.live() {
			fn()
		}
	})
	t.mu.Unlock()
	return t
}

func (ClockScheduler) Every(d time.Duration, fn func()) Task {
	t := &clockTask{}
	var tick func()
	tick = func() {
		if !t.live() {
			return
		}
		fn()
		t.mu.Lock()
		if !t.stopped {
			t.timer = time.AfterFunc(d, tick)
		}
		t.mu.Unlock()
	}
	t.mu.Lock()
	t.timer = time.AfterFunc(d, tick)
	t.mu.Unlock()
	return t
}

// ManualScheduler is a deterministic Scheduler driven by Advance.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s        *ManualScheduler
	seq      int
	due      time.Duration
	interval time.Duration // 0 for one-shot
	fn       func()
	stopped  bool
}

func (t *manualTask) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) add(d, interval time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, seq: s.seq, due: s.now + d, interval: interval, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *ManualScheduler) After(d time.Duration, fn func()) Task {
	return s.add(d, 0, fn)
}

func (s *ManualScheduler) Every(d time.Duration, fn func()) Task {
	return s.add(d, d, fn)
}

// Advance moves the clock forward by d, firing every task that comes due in
// time order. Callbacks run on the caller's goroutine.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		s.prune()
		if len(s.tasks) == 0 || s.tasks[0].due > target {
			s.now = target
			s.mu.Unlock()
			return
		}
		t := s.tasks[0]
		s.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			t.stopped = true
		}
		s.mu.Unlock()

		t.fn()
	}
}

// Pending reports how many live tasks are scheduled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	return len(s.tasks)
}

// Now returns the scheduler's elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// prune drops stopped tasks and sorts the rest by due time. Caller holds mu.
func (s *ManualScheduler) prune() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.tasks = live
	sort.Slice(s.tasks, func(i, j int) bool {
		if s.tasks[i].due != s.tasks[j].due {
			return s.tasks[i].due < s.tasks[j].due
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
}
