package listing

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically evicts idle sessions from a Manager's memory.
type Janitor struct {
	cron    *cron.Cron
	manager *Manager
	log     *slog.Logger
}

// NewJanitor creates a Janitor that sweeps m every interval.
func NewJanitor(m *Manager, interval time.Duration, log *slog.Logger) (*Janitor, error) {
	c := cron.New()

	j := &Janitor{
		cron:    c,
		manager: m,
		log:     log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), j.sweep); err != nil {
		return nil, err
	}

	return j, nil
}

// Start begins running sweeps.
func (j *Janitor) Start() {
	j.log.Info("session janitor started")
	j.cron.Start()
}

// Stop stops the janitor, waiting for a running sweep to finish.
func (j *Janitor) Stop() context.Context {
	j.log.Info("session janitor stopping")
	return j.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (j *Janitor) Entries() []cron.Entry {
	return j.cron.Entries()
}

func (j *Janitor) sweep() {
	n := j.manager.EvictIdle()
	j.log.Debug("session sweep finished", "evicted", n)
}
