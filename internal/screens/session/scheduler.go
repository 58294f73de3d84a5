package session

import (
	"sort"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	sess "github.com/cglprep/blitz/internal/session"
)

// fireMsg reports that a timer scheduled by sched came due.
type fireMsg struct {
	sched *teaScheduler
	id    int
}

// teaScheduler runs session timers through the Bubble Tea event loop, so
// engine callbacks execute on the Update goroutine like key presses do.
// Timers registered by the engine are turned into tea.Tick commands by Cmds.
type teaScheduler struct {
	mu      sync.Mutex
	next    int
	tasks   map[int]*teaTask
	pending []*teaTask
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

type teaTask struct {
	s     *teaScheduler
	id    int
	d     time.Duration
	every bool
	fn    func()
}

func (t *teaTask) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.tasks, t.id)
}

var _ sess.Scheduler = (*teaScheduler)(nil)

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: make(map[int]*teaTask), tick: tea.Tick}
}

func (s *teaScheduler) Every(d time.Duration, fn func()) sess.Task {
	return s.add(d, true, fn)
}

func (s *teaScheduler) After(d time.Duration, fn func()) sess.Task {
	return s.add(d, false, fn)
}

func (s *teaScheduler) add(d time.Duration, every bool, fn func()) sess.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	t := &teaTask{s: s, id: s.next, d: d, every: every, fn: fn}
	s.tasks[t.id] = t
	s.pending = append(s.pending, t)
	return t
}

// Cmds returns a tick command for every timer armed since the last call.
func (s *teaScheduler) Cmds() tea.Cmd {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	cmds := make([]tea.Cmd, 0, len(pending))
	for _, t := range pending {
		id := t.id
		cmds = append(cmds, s.tick(t.d, func(time.Time) tea.Msg {
			return fireMsg{sched: s, id: id}
		}))
	}
	return tea.Batch(cmds...)
}

// Fire runs timer id if it is still live and re-arms repeating timers.
func (s *teaScheduler) Fire(id int) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if ok && !t.every {
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	t.fn()

	if t.every {
		s.mu.Lock()
		if _, live := s.tasks[id]; live {
			s.pending = append(s.pending, t)
		}
		s.mu.Unlock()
	}
}

// StopAll cancels every timer.
func (s *teaScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tasks)
	s.pending = nil
}

// live lists the ids of running timers, oldest first.
func (s *teaScheduler) live() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
