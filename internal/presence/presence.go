// Package presence derives a short "what am I doing" status from the open
// workspace and file and forwards it to a publisher.
package presence

import (
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Activity is one published status.
type Activity struct {
	Details string    `json:"details"`
	State   string    `json:"state"`
	Start   time.Time `json:"start"`
}

// Publisher delivers activities somewhere visible.
type Publisher interface {
	Publish(a Activity) error
	Clear() error
}

// source reports what the user currently has open.
type source interface {
	Root() string
	CurrentFile() string
}

// Status is the toggle state returned to callers.
type Status struct {
	Enabled  bool      `json:"enabled"`
	Activity *Activity `json:"activity,omitempty"`
}

// Tracker publishes activity changes while enabled.
type Tracker struct {
	src       source
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	enabled bool
	start   time.Time
	last    Activity
}

// NewTracker creates a disabled tracker.
func NewTracker(src source, publisher Publisher, logger *zap.Logger) *Tracker {
	if src == nil {
		panic("src is required")
	}
	if publisher == nil {
		panic("publisher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{src: src, publisher: publisher, logger: logger, now: time.Now}
}

// Describe computes the activity for a workspace root and current file.
func Describe(root, currentFile string) (details, state string) {
	details, state = "Idle", "No workspace open"
	if root != "" {
		state = "Workspace: " + filepath.Base(root)
		details = "Browsing files"
	}
	if currentFile != "" {
		details = "Editing " + filepath.Base(filepath.FromSlash(currentFile))
	}
	return details, state
}

// SetEnabled turns publishing on or off. Enabling restarts the elapsed
// timer and publishes immediately; disabling clears the published status.
func (t *Tracker) SetEnabled(enabled bool) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if enabled == t.enabled {
		return t.statusLocked(), nil
	}
	if !enabled {
		t.enabled = false
		t.last = Activity{}
		if err := t.publisher.Clear(); err != nil {
			return t.statusLocked(), err
		}
		return t.statusLocked(), nil
	}

	t.enabled = true
	t.start = t.now()
	if err := t.publishLocked(true); err != nil {
		return t.statusLocked(), err
	}
	return t.statusLocked(), nil
}

// Refresh republishes if the derived activity changed since the last publish.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	if err := t.publishLocked(false); err != nil {
		t.logger.Warn("failed to update presence", zap.Error(err))
	}
}

// Status returns whether publishing is on and the last published activity.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Tracker) publishLocked(force bool) error {
	details, state := Describe(t.src.Root(), t.src.CurrentFile())
	a := Activity{Details: details, State: state, Start: t.start}
	if !force && a == t.last {
		return nil
	}
	if err := t.publisher.Publish(a); err != nil {
		return err
	}
	t.last = a
	return nil
}

func (t *Tracker) statusLocked() Status {
	s := Status{Enabled: t.enabled}
	if t.enabled && t.last.Details != "" {
		a := t.last
		s.Activity = &a
	}
	return s
}

// LogPublisher writes activities to a logger.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher backed by logger.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(a Activity) error {
	p.logger.Info("presence", zap.String("details", a.Details), zap.String("state", a.State), zap.Time("start", a.Start))
	return nil
}

func (p *LogPublisher) Clear() error {
	p.logger.Info("presence cleared")
	return nil
}
