package mdexport

// Stage identifies a phase of the export pipeline. Each stage reports
// a fixed progress percentage when entered; the styling stage exists
// only on the print path.
type Stage string

// Pipeline stages in execution order.
const (
	StageInitializing Stage = "initializing"
	StageProcessing   Stage = "processing"
	StageGenerating   Stage = "generating"
	StageStyling      Stage = "styling"
	StageFinalizing   Stage = "finalizing"
	StageComplete     Stage = "complete"
)

// stagePercent maps each stage to the progress reported on entry.
var stagePercent = map[Stage]int{
	StageInitializing: 10,
	StageProcessing:   30,
	StageGenerating:   50,
	StageStyling:      70,
	StageFinalizing:   90,
	StageComplete:     100,
}

// Percent returns the progress percentage reported when the stage is
// entered. Unknown stages report 0.
func (s Stage) Percent() int {
	return stagePercent[s]
}

// ExportState is the externally observable state of one export
// invocation: a busy flag and an integer progress percentage. After
// completion or any error the state returns to the zero value.
type ExportState struct {
	IsExporting bool
	Progress    int
}

// ProgressFunc observes export state changes. Calls arrive on the
// exporting goroutine in stage order; implementations must not block.
type ProgressFunc func(ExportState)

// progressTracker drives the stage ladder for a single export. It is
// not safe for concurrent use; each Export call creates its own.
type progressTracker struct {
	notify  ProgressFunc
	started bool
}

func newProgressTracker(notify ProgressFunc) *progressTracker {
	return &progressTracker{notify: notify}
}

// enter reports the given stage as in progress.
func (t *progressTracker) enter(s Stage) {
	t.started = true
	t.emit(ExportState{IsExporting: true, Progress: s.Percent()})
}

// reset returns the observable state to idle. It emits nothing when no
// stage was ever entered, so rejected inputs stay silent.
func (t *progressTracker) reset() {
	if !t.started {
		return
	}
	t.started = false
	t.emit(ExportState{})
}

func (t *progressTracker) emit(state ExportState) {
	if t.notify != nil {
		t.notify(state)
	}
}
