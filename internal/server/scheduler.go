package server

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
)

// Refresher re-fetches init data on a cron schedule so long-running
// processes pick up message and trigger-phrase changes without a
// restart.
type Refresher struct {
	Cache  *InitCache
	Spec   string
	Stop   chan struct{}
	Logger *log.Logger
}

// Start begins the refresh loop. An empty spec disables refreshing; a
// bad spec is a configuration error.
func (r *Refresher) Start() error {
	if r.Spec == "" {
		return nil
	}
	expr, err := cronexpr.Parse(r.Spec)
	if err != nil {
		return err
	}
	if r.Stop == nil {
		r.Stop = make(chan struct{})
	}
	go func() {
		for {
			next := expr.Next(time.Now())
			if next.IsZero() {
				return
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-r.Stop:
				timer.Stop()
				return
			case <-timer.C:
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := r.Cache.Refresh(ctx); err != nil {
				r.Logger.Printf("init data refresh failed: %v", err)
			}
			cancel()
		}
	}()
	return nil
}
