// Package connectivity ties the host's online/offline signals to the
// database network state.
package connectivity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"saas-platform/backend/internal/hostenv"
	"saas-platform/backend/internal/logger"
)

// toggleTimeout bounds toggles started by the monitor, which have no caller
// context.
const toggleTimeout = 30 * time.Second

// Network is the part of the database handle the service switches.
type Network interface {
	EnableNetwork(ctx context.Context) error
	DisableNetwork(ctx context.Context) error
}

// EventTarget is the source of online/offline events.
type EventTarget interface {
	AddEventListener(ev hostenv.Event, fn func()) hostenv.ListenerID
	RemoveEventListener(ev hostenv.Event, id hostenv.ListenerID)
	OnLine() bool
}

type Service struct {
	net    Network
	target EventTarget
	log    *logger.Logger
}

// NewService accepts a nil target when there is no host window; the toggles
// still work but MonitorConnection must not be called.
func NewService(net Network, target EventTarget, log *logger.Logger) *Service {
	return &Service{net: net, target: target, log: log.Component("connectivity")}
}

func (s *Service) CanMonitor() bool {
	return s.target != nil
}

// EnableOfflineMode disables the database network. The error is logged and
// returned; callers that do not care may drop it.
func (s *Service) EnableOfflineMode(ctx context.Context) error {
	if err := s.net.DisableNetwork(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to enable offline mode")
		return fmt.Errorf("enable offline mode: %w", err)
	}
	s.log.Info().Msg("offline mode enabled")
	return nil
}

// EnableOnlineMode re-enables the database network. Same error contract as
// EnableOfflineMode.
func (s *Service) EnableOnlineMode(ctx context.Context) error {
	if err := s.net.EnableNetwork(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to enable online mode")
		return fmt.Errorf("enable online mode: %w", err)
	}
	s.log.Info().Msg("online mode enabled")
	return nil
}

// Online reports the host's current connectivity state; true when there is
// no host window.
func (s *Service) Online() bool {
	if s.target == nil {
		return true
	}
	return s.target.OnLine()
}

// MonitorConnection calls cb once with the current state, then on every
// online/offline event after starting the matching toggle in the
// background. Toggles are not awaited and may complete out of order. The
// returned function removes both listeners; it is safe to call more than
// once, and neither a callback nor a new toggle starts after it returns.
// cb must not call it.
func (s *Service) MonitorConnection(cb func(online bool)) (stop func()) {
	return s.watch(cb, true)
}

// Watch is MonitorConnection without the toggles: cb only observes the
// state.
func (s *Service) Watch(cb func(online bool)) (stop func()) {
	return s.watch(cb, false)
}

func (s *Service) watch(cb func(online bool), withToggles bool) func() {
	var (
		mu      sync.Mutex
		stopped bool
	)
	// deliver holds mu so stop cannot return while a toggle is being
	// started or a callback is running.
	deliver := func(online bool, fn func(context.Context) error) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if fn != nil {
			go s.toggle(fn)
		}
		cb(online)
	}

	var onFn, offFn func(context.Context) error
	if withToggles {
		onFn, offFn = s.EnableOnlineMode, s.EnableOfflineMode
	}
	onlineID := s.target.AddEventListener(hostenv.EventOnline, func() { deliver(true, onFn) })
	offlineID := s.target.AddEventListener(hostenv.EventOffline, func() { deliver(false, offFn) })

	deliver(s.target.OnLine(), nil)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.target.RemoveEventListener(hostenv.EventOnline, onlineID)
			s.target.RemoveEventListener(hostenv.EventOffline, offlineID)
			mu.Lock()
			stopped = true
			mu.Unlock()
		})
	}
}

func (s *Service) toggle(fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), toggleTimeout)
	defer cancel()
	// Already logged by fn.
	_ = fn(ctx)
}
