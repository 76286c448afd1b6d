package client

import (
	"sync"
	"time"
)

// Stage is the human-facing label shown while a submission is processed.
// It is derived from the backend processing status but not identical to
// it: while the backend reports "processing" the displayed sub-stage
// rotates through analyzing/enhancing/extracting purely for perceived
// progress.
type Stage string

const (
	StageIdle       Stage = ""
	StageUploading  Stage = "uploading"
	StageAnalyzing  Stage = "analyzing"
	StageEnhancing  Stage = "enhancing"
	StageExtracting Stage = "extracting"
	StageComplete   Stage = "complete"
)

var processingCycle = []Stage{StageAnalyzing, StageEnhancing, StageExtracting}

const (
	// cycleAdvanceEvery is how often the displayed sub-stage rotates
	// while the backend still reports processing.
	cycleAdvanceEvery = 5 * time.Second
	// completeDwell is how long the complete stage is shown before the
	// controller returns to idle.
	completeDwell = 500 * time.Millisecond
)

// Lifecycle owns the client-side state of one image submission: the
// tracked processing id, the displayed stage, and the timers behind the
// rotating sub-stage and the completion dwell. All timer handles are
// instance state so concurrent editing sessions never share them.
type Lifecycle struct {
	mu         sync.Mutex
	id         uint
	stage      Stage
	cycleTimer *time.Timer
	dwellTimer *time.Timer
	cycleIdx   int
	onStage    func(Stage)

	cycleEvery time.Duration
	dwell      time.Duration
}

// NewLifecycle creates an idle controller. onStage, if non-nil, is called
// after every stage change.
func NewLifecycle(onStage func(Stage)) *Lifecycle {
	return &Lifecycle{
		onStage:    onStage,
		cycleEvery: cycleAdvanceEvery,
		dwell:      completeDwell,
	}
}

// Stage returns the currently displayed stage.
func (l *Lifecycle) Stage() Stage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stage
}

// ProcessingID returns the tracked processing id, 0 when idle.
func (l *Lifecycle) ProcessingID() uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.id
}

// Begin starts tracking a new submission. Any previous lifecycle is
// fully torn down first - id, stage and timers - so two submissions can
// never interleave.
func (l *Lifecycle) Begin(id uint) {
	l.mu.Lock()
	l.resetLocked()
	l.id = id
	l.setStageLocked(StageUploading)
	l.mu.Unlock()
}

// Observe maps a polled backend processing status onto the displayed
// stage. Statuses for a superseded id are ignored.
func (l *Lifecycle) Observe(id uint, processingStatus string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.id == 0 || id != l.id {
		return
	}

	switch processingStatus {
	case "pending":
		l.stopCycleLocked()
		l.setStageLocked(StageUploading)
	case "processing":
		l.startCycleLocked()
	case "completed":
		l.stopCycleLocked()
		l.setStageLocked(StageComplete)
		l.id = 0
		l.dwellTimer = time.AfterFunc(l.dwell, l.dwellElapsed)
	case "failed":
		l.resetLocked()
	}
}

// ObserveGone handles the record vanishing mid-processing: the
// controller returns straight to idle with no dwell.
func (l *Lifecycle) ObserveGone(id uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.id == 0 || id != l.id {
		return
	}
	l.resetLocked()
}

// Reset tears the controller down to idle immediately.
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	l.resetLocked()
	l.mu.Unlock()
}

// Active reports whether a submission is currently tracked.
func (l *Lifecycle) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.id != 0
}

func (l *Lifecycle) dwellElapsed() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stage != StageComplete {
		return
	}
	l.dwellTimer = nil
	l.setStageLocked(StageIdle)
}

// startCycleLocked enters the rotating sub-stage display. Idempotent: a
// running cycle timer is left alone so re-observing "processing" on
// every poll tick cannot spawn a second timer.
func (l *Lifecycle) startCycleLocked() {
	if l.cycleTimer != nil {
		return
	}
	l.cycleIdx = 0
	l.setStageLocked(processingCycle[0])
	l.cycleTimer = time.AfterFunc(l.cycleEvery, l.advanceCycle)
}

func (l *Lifecycle) advanceCycle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cycleTimer == nil {
		// Cancelled between firing and acquiring the lock.
		return
	}
	l.cycleIdx = (l.cycleIdx + 1) % len(processingCycle)
	l.setStageLocked(processingCycle[l.cycleIdx])
	l.cycleTimer = time.AfterFunc(l.cycleEvery, l.advanceCycle)
}

func (l *Lifecycle) stopCycleLocked() {
	if l.cycleTimer != nil {
		l.cycleTimer.Stop()
		l.cycleTimer = nil
	}
}

func (l *Lifecycle) resetLocked() {
	l.stopCycleLocked()
	if l.dwellTimer != nil {
		l.dwellTimer.Stop()
		l.dwellTimer = nil
	}
	l.id = 0
	if l.stage != StageIdle {
		l.setStageLocked(StageIdle)
	}
}

func (l *Lifecycle) setStageLocked(stage Stage) {
	if l.stage == stage {
		return
	}
	l.stage = stage
	if l.onStage != nil {
		l.onStage(stage)
	}
}
