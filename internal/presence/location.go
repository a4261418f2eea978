package presence

import (
	"context"
	"errors"
	"log"
	"time"
)

type locationResult struct {
	location string
	err      error
}

var errEmptyLocation = errors.New("location source returned an empty location")

// resolveLocation issues a single location request and waits at most c.wait for
// it. On failure or timeout the fallback is returned; an answer that arrives
// after the wait is applied later if it still belongs to the latest request of
// the same session. Must be called with e.mu held.
func (c *Controller) resolveLocation(ctx context.Context, e *entry, id, sessionID, fallback string) string {
	if c.source == nil {
		return fallback
	}

	e.locSeq++
	seq := e.locSeq
	results := make(chan locationResult, 1)
	reqCtx := context.WithoutCancel(ctx)
	go func() {
		loc, err := c.source.ResolveLocation(reqCtx, id)
		if err == nil && loc == "" {
			err = errEmptyLocation
		}
		results <- locationResult{location: loc, err: err}
	}()

	timer := time.NewTimer(c.wait)
	defer timer.Stop()

	select {
	case res := <-results:
		if res.err != nil {
			log.Printf("Location lookup for %s failed, keeping %q: %v", id, fallback, res.err)
			return fallback
		}
		return res.location
	case <-timer.C:
		log.Printf("Location lookup for %s is slow, keeping %q until it answers", id, fallback)
	case <-ctx.Done():
		log.Printf("Location lookup for %s abandoned, keeping %q: %v", id, fallback, ctx.Err())
	}

	c.pending.Add(1)
	go c.applyLateLocation(e, id, sessionID, seq, results)
	return fallback
}

func (c *Controller) applyLateLocation(e *entry, id, sessionID string, seq uint64, results <-chan locationResult) {
	defer c.pending.Done()

	res := <-results
	if res.err != nil {
		log.Printf("Late location lookup for %s failed: %v", id, res.err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locSeq != seq || !e.rec.IsCheckedIn || !e.rec.AutoLocation || e.rec.SessionID != sessionID {
		return
	}
	if e.rec.Location == res.location {
		return
	}

	next := e.rec
	next.Location = res.location
	next.LastSeenAt = c.now()
	if err := c.commit(context.Background(), e, next, nil); err != nil {
		log.Printf("Failed to apply late location for %s: %v", id, err)
	}
}

// WaitPending blocks until outstanding late location lookups have finished.
func (c *Controller) WaitPending() {
	c.pending.Wait()
}
