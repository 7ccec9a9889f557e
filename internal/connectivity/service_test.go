package connectivity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-platform/backend/internal/hostenv"
	"saas-platform/backend/internal/logger"
)

type fakeNetwork struct {
	err   error
	calls chan string
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{calls: make(chan string, 16)}
}

func (n *fakeNetwork) EnableNetwork(context.Context) error {
	n.calls <- "enable"
	return n.err
}

func (n *fakeNetwork) DisableNetwork(context.Context) error {
	n.calls <- "disable"
	return n.err
}

func (n *fakeNetwork) next(t *testing.T) string {
	t.Helper()
	select {
	case c := <-n.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a network toggle")
		return ""
	}
}

func TestToggles(t *testing.T) {
	net := newFakeNetwork()
	s := NewService(net, hostenv.NewWindow("localhost"), logger.Nop())
	ctx := context.Background()

	require.NoError(t, s.EnableOfflineMode(ctx))
	assert.Equal(t, "disable", net.next(t))

	require.NoError(t, s.EnableOnlineMode(ctx))
	assert.Equal(t, "enable", net.next(t))
}

func TestToggles_FailureIsReturnedNotPanicked(t *testing.T) {
	net := newFakeNetwork()
	net.err = errors.New("client is closed")
	s := NewService(net, hostenv.NewWindow("localhost"), logger.Nop())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		err := s.EnableOfflineMode(ctx)
		assert.ErrorIs(t, err, net.err)
	})
	assert.NotPanics(t, func() {
		err := s.EnableOnlineMode(ctx)
		assert.ErrorIs(t, err, net.err)
	})
}

func TestMonitorConnection_InitialStateThenOnePerEvent(t *testing.T) {
	net := newFakeNetwork()
	win := hostenv.NewWindow("localhost")
	s := NewService(net, win, logger.Nop())

	var got []bool
	stop := s.MonitorConnection(func(online bool) { got = append(got, online) })
	defer stop()

	assert.Equal(t, []bool{true}, got, "initial state delivered synchronously")
	assert.Equal(t, 1, win.ListenerCount(hostenv.EventOnline))
	assert.Equal(t, 1, win.ListenerCount(hostenv.EventOffline))

	win.DispatchEvent(hostenv.EventOffline)
	assert.Equal(t, []bool{true, false}, got)
	assert.Equal(t, "disable", net.next(t))

	win.DispatchEvent(hostenv.EventOnline)
	assert.Equal(t, []bool{true, false, true}, got)
	assert.Equal(t, "enable", net.next(t))
}

func TestMonitorConnection_InitialOffline(t *testing.T) {
	win := hostenv.NewWindow("localhost")
	win.DispatchEvent(hostenv.EventOffline)
	s := NewService(newFakeNetwork(), win, logger.Nop())

	var got []bool
	stop := s.MonitorConnection(func(online bool) { got = append(got, online) })
	defer stop()

	assert.Equal(t, []bool{false}, got)
}

func TestMonitorConnection_StopRemovesListeners(t *testing.T) {
	net := newFakeNetwork()
	win := hostenv.NewWindow("localhost")
	s := NewService(net, win, logger.Nop())

	calls := 0
	stop := s.MonitorConnection(func(bool) { calls++ })
	require.Equal(t, 1, calls)

	stop()
	stop()

	assert.Zero(t, win.ListenerCount(hostenv.EventOnline))
	assert.Zero(t, win.ListenerCount(hostenv.EventOffline))

	win.DispatchEvent(hostenv.EventOffline)
	win.DispatchEvent(hostenv.EventOnline)
	assert.Equal(t, 1, calls)

	select {
	case c := <-net.calls:
		t.Fatalf("unexpected toggle %q after stop", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitorConnection_ToggleFailureStillDeliversCallback(t *testing.T) {
	net := newFakeNetwork()
	net.err = errors.New("boom")
	win := hostenv.NewWindow("localhost")
	s := NewService(net, win, logger.Nop())

	var got []bool
	stop := s.MonitorConnection(func(online bool) { got = append(got, online) })
	defer stop()

	win.DispatchEvent(hostenv.EventOffline)
	assert.Equal(t, []bool{true, false}, got)
	assert.Equal(t, "disable", net.next(t))
}

func TestMonitorConnection_IndependentMonitors(t *testing.T) {
	win := hostenv.NewWindow("localhost")
	s := NewService(newFakeNetwork(), win, logger.Nop())

	a, b := 0, 0
	stopA := s.MonitorConnection(func(bool) { a++ })
	stopB := s.MonitorConnection(func(bool) { b++ })
	defer stopB()

	stopA()
	win.DispatchEvent(hostenv.EventOffline)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestCanMonitor(t *testing.T) {
	assert.True(t, NewService(newFakeNetwork(), hostenv.NewWindow("x"), logger.Nop()).CanMonitor())
	assert.False(t, NewService(newFakeNetwork(), nil, logger.Nop()).CanMonitor())
}

// stickyTarget keeps listeners after removal so a dispatch already in
// flight when stop runs can be replayed.
type stickyTarget struct {
	listeners map[hostenv.Event][]func()
}

func (t *stickyTarget) AddEventListener(ev hostenv.Event, fn func()) hostenv.ListenerID {
	if t.listeners == nil {
		t.listeners = map[hostenv.Event][]func(){}
	}
	t.listeners[ev] = append(t.listeners[ev], fn)
	return hostenv.ListenerID(len(t.listeners[ev]))
}

func (t *stickyTarget) RemoveEventListener(hostenv.Event, hostenv.ListenerID) {}

func (t *stickyTarget) OnLine() bool { return true }

func TestMonitorConnection_NoToggleAfterStop(t *testing.T) {
	net := newFakeNetwork()
	target := &stickyTarget{}
	s := NewService(net, target, logger.Nop())

	calls := 0
	stop := s.MonitorConnection(func(bool) { calls++ })
	stop()

	for _, fn := range target.listeners[hostenv.EventOffline] {
		fn()
	}
	for _, fn := range target.listeners[hostenv.EventOnline] {
		fn()
	}

	assert.Equal(t, 1, calls)
	select {
	case c := <-net.calls:
		t.Fatalf("unexpected toggle %q after stop", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatch_DoesNotToggle(t *testing.T) {
	net := newFakeNetwork()
	win := hostenv.NewWindow("localhost")
	s := NewService(net, win, logger.Nop())

	var got []bool
	stop := s.Watch(func(online bool) { got = append(got, online) })

	win.DispatchEvent(hostenv.EventOffline)
	win.DispatchEvent(hostenv.EventOnline)
	stop()

	assert.Equal(t, []bool{true, false, true}, got)
	assert.Zero(t, win.ListenerCount(hostenv.EventOnline))
	select {
	case c := <-net.calls:
		t.Fatalf("watch started toggle %q", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOnline(t *testing.T) {
	win := hostenv.NewWindow("localhost")
	s := NewService(newFakeNetwork(), win, logger.Nop())
	assert.True(t, s.Online())

	win.DispatchEvent(hostenv.EventOffline)
	assert.False(t, s.Online())

	assert.True(t, NewService(newFakeNetwork(), nil, logger.Nop()).Online())
}
