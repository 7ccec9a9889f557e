package hostenv

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"saas-platform/backend/internal/logger"
)

const defaultProbeTimeout = 5 * time.Second

// Prober turns reachability of a URL into online/offline events on a Window.
// Any HTTP response counts as reachable; only transport failures count as
// offline.
type Prober struct {
	win      *Window
	url      string
	interval time.Duration
	http     *resty.Client
	log      *logger.Logger
}

func NewProber(win *Window, url string, interval time.Duration, log *logger.Logger) *Prober {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Prober{
		win:      win,
		url:      url,
		interval: interval,
		http:     resty.New().SetTimeout(defaultProbeTimeout),
		log:      log.Component("prober"),
	}
}

// Probe checks the URL once and dispatches an event if the state changed.
// It returns the observed state.
func (p *Prober) Probe(ctx context.Context) bool {
	_, err := p.http.R().SetContext(ctx).Head(p.url)
	online := err == nil
	if ctx.Err() != nil {
		return p.win.OnLine()
	}
	if online == p.win.OnLine() {
		return online
	}
	if online {
		p.log.Info().Str("url", p.url).Msg("host is back online")
		p.win.DispatchEvent(EventOnline)
	} else {
		p.log.Warn().Err(err).Str("url", p.url).Msg("host went offline")
		p.win.DispatchEvent(EventOffline)
	}
	return online
}

// Run probes immediately and then every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.Probe(ctx)
		}
	}
}
