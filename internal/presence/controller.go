package presence

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"faculty-locator-backend/internal/model"
)

// LocationSource resolves the current whereabouts of a faculty member.
type LocationSource interface {
	ResolveLocation(ctx context.Context, facultyID string) (string, error)
}

// Persister writes committed records through to storage. archived is non-nil
// when the mutation closes a check-in session.
type Persister interface {
	SavePresence(ctx context.Context, rec model.PresenceRecord, archived *model.PresenceHistory) error
}

// Listener observes committed record changes. Listeners run while the record is
// locked and must not call back into the Controller.
type Listener func(prev, next model.PresenceRecord)

type entry struct {
	mu  sync.Mutex
	rec model.PresenceRecord
	// locSeq identifies the latest location request; older answers are dropped.
	locSeq uint64
}

// Controller owns the presence records of the directory and enforces the
// check-in state machine. Operations on the same id are serialized.
type Controller struct {
	entries   map[string]*entry
	order     []string
	source    LocationSource
	store     Persister
	wait      time.Duration
	listeners []Listener

	now          func() time.Time
	newSessionID func() string

	pending sync.WaitGroup
}

// NewController admits the given records. Records that fail Validate are reset
// to offline. source and store may be nil.
func NewController(records []model.PresenceRecord, source LocationSource, store Persister, wait time.Duration) *Controller {
	c := &Controller{
		entries:      make(map[string]*entry, len(records)),
		order:        make([]string, 0, len(records)),
		source:       source,
		store:        store,
		wait:         wait,
		now:          func() time.Time { return time.Now().UTC() },
		newSessionID: func() string { return uuid.New().String() },
	}
	for _, rec := range records {
		if _, dup := c.entries[rec.FacultyID]; dup {
			continue
		}
		if err := Validate(rec); err != nil {
			log.Printf("Warning: resetting inconsistent presence record: %v", err)
			auto := rec.AutoLocation
			rec = model.NewPresenceRecord(rec.FacultyID)
			rec.AutoLocation = auto
		}
		c.entries[rec.FacultyID] = &entry{rec: rec}
		c.order = append(c.order, rec.FacultyID)
	}
	return c
}

// OnChange registers a listener for committed changes.
func (c *Controller) OnChange(l Listener) {
	c.listeners = append(c.listeners, l)
}

func (c *Controller) lookup(id string) (*entry, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFaculty, id)
	}
	return e, nil
}

// CheckIn moves an offline record to available. With auto-location on, the
// location comes from the location source; otherwise manualLocation is used,
// or ManualLocationRequired when it is empty.
func (c *Controller) CheckIn(ctx context.Context, id, manualLocation string) (model.PresenceRecord, error) {
	e, err := c.lookup(id)
	if err != nil {
		return model.PresenceRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rec.IsCheckedIn {
		return e.rec, fmt.Errorf("check in %s: %w", id, ErrAlreadyCheckedIn)
	}

	now := c.now()
	next := e.rec
	next.IsCheckedIn = true
	next.CheckedInAt = &now
	next.Status = model.StatusAvailable
	next.SessionID = c.newSessionID()
	next.LastSeenAt = now
	if next.AutoLocation {
		next.Location = c.resolveLocation(ctx, e, id, next.SessionID, e.rec.Location)
	} else if manualLocation != "" {
		next.Location = manualLocation
	} else {
		next.Location = ManualLocationRequired
	}

	if err := c.commit(ctx, e, next, nil); err != nil {
		return e.rec, err
	}
	return next, nil
}

// SetStatus changes the status of a checked-in record.
func (c *Controller) SetStatus(ctx context.Context, id string, s model.Status) (model.PresenceRecord, error) {
	e, err := c.lookup(id)
	if err != nil {
		return model.PresenceRecord{}, err
	}
	if !s.Active() {
		return model.PresenceRecord{}, fmt.Errorf("set status %s: %w: %q", id, ErrInvalidStatus, s)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rec.IsCheckedIn {
		return e.rec, fmt.Errorf("set status %s: %w", id, ErrNotCheckedIn)
	}

	next := e.rec
	next.Status = s
	next.LastSeenAt = c.now()
	if next.AutoLocation {
		next.Location = c.resolveLocation(ctx, e, id, next.SessionID, e.rec.Location)
	}

	if err := c.commit(ctx, e, next, nil); err != nil {
		return e.rec, err
	}
	return next, nil
}

// CheckOut moves a record to offline and archives the session. Checking out an
// offline record is a successful no-op.
func (c *Controller) CheckOut(ctx context.Context, id string) (model.PresenceRecord, error) {
	e, err := c.lookup(id)
	if err != nil {
		return model.PresenceRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rec.IsCheckedIn {
		return e.rec, nil
	}

	now := c.now()
	archived := &model.PresenceHistory{
		FacultyID:   id,
		SessionID:   e.rec.SessionID,
		Status:      e.rec.Status,
		Location:    e.rec.Location,
		PeriodStart: *e.rec.CheckedInAt,
		PeriodEnd:   now,
	}
	next := model.NewPresenceRecord(id)
	next.AutoLocation = e.rec.AutoLocation
	next.LastSeenAt = now

	if err := c.commit(ctx, e, next, archived); err != nil {
		return e.rec, err
	}
	e.locSeq++
	return next, nil
}

// SetAutoLocation toggles the auto-location preference. Turning it on while
// checked in re-resolves the location, replacing any manual value.
func (c *Controller) SetAutoLocation(ctx context.Context, id string, enabled bool) (model.PresenceRecord, error) {
	e, err := c.lookup(id)
	if err != nil {
		return model.PresenceRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rec.AutoLocation == enabled {
		return e.rec, nil
	}

	next := e.rec
	next.AutoLocation = enabled
	if enabled && next.IsCheckedIn {
		next.Location = c.resolveLocation(ctx, e, id, next.SessionID, e.rec.Location)
		next.LastSeenAt = c.now()
	}
	if err := c.commit(ctx, e, next, nil); err != nil {
		return e.rec, err
	}
	if !enabled {
		e.locSeq++
	}
	return next, nil
}

// SetLocation records a manually entered location.
func (c *Controller) SetLocation(ctx context.Context, id, location string) (model.PresenceRecord, error) {
	e, err := c.lookup(id)
	if err != nil {
		return model.PresenceRecord{}, err
	}
	if location == "" {
		return model.PresenceRecord{}, fmt.Errorf("set location %s: %w", id, ErrInvalidLocation)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rec.IsCheckedIn {
		return e.rec, fmt.Errorf("set location %s: %w", id, ErrNotCheckedIn)
	}
	if e.rec.AutoLocation {
		return e.rec, fmt.Errorf("set location %s: %w", id, ErrAutoLocationEnabled)
	}

	next := e.rec
	next.Location = location
	next.LastSeenAt = c.now()
	if err := c.commit(ctx, e, next, nil); err != nil {
		return e.rec, err
	}
	return next, nil
}

// Record returns a copy of the current record for id.
func (c *Controller) Record(id string) (model.PresenceRecord, error) {
	e, err := c.lookup(id)
	if err != nil {
		return model.PresenceRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, nil
}

// Elapsed returns how long id has been checked in at now.
func (c *Controller) Elapsed(id string, now time.Time) (time.Duration, bool, error) {
	rec, err := c.Record(id)
	if err != nil {
		return 0, false, err
	}
	d, ok := ElapsedSince(rec, now)
	return d, ok, nil
}

// Snapshot returns every record, each read exactly once under its own lock.
func (c *Controller) Snapshot() map[string]model.PresenceRecord {
	snap := make(map[string]model.PresenceRecord, len(c.order))
	for _, id := range c.order {
		e := c.entries[id]
		e.mu.Lock()
		snap[id] = e.rec
		e.mu.Unlock()
	}
	return snap
}

func (c *Controller) commit(ctx context.Context, e *entry, next model.PresenceRecord, archived *model.PresenceHistory) error {
	if c.store != nil {
		if err := c.store.SavePresence(ctx, next, archived); err != nil {
			return fmt.Errorf("failed to persist presence for %s: %w", next.FacultyID, err)
		}
	}
	prev := e.rec
	e.rec = next
	for _, l := range c.listeners {
		l(prev, next)
	}
	return nil
}
