package render

// Stage names one step of a render attempt.
type Stage string

const (
	StageTrimming      Stage = "trimming"
	StageTransitioning Stage = "transitioning"
	StageOverlaying    Stage = "overlaying"
	StageCaptioning    Stage = "captioning"
	StageMixing        Stage = "mixing"
	StageDone          Stage = "done"
	StageFailed        Stage = "error"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{StageTrimming, StageTransitioning, StageOverlaying, StageCaptioning, StageMixing}

// EventStatus describes what happened to a stage.
type EventStatus string

const (
	StatusStarted   EventStatus = "started"
	StatusCompleted EventStatus = "completed"
	StatusSkipped   EventStatus = "skipped"
	StatusDegraded  EventStatus = "degraded"
	StatusFailed    EventStatus = "failed"
)

// Event is emitted on every stage transition.
type Event struct {
	Attempt int
	Stage   Stage
	Status  EventStatus
	Detail  string
	Err     error
}

// Reporter observes stage transitions.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(ev Event) { f(ev) }

// MultiReporter fans events out to several reporters, skipping nil ones.
type MultiReporter []Reporter

func (m MultiReporter) Report(ev Event) {
	for _, r := range m {
		if r != nil {
			r.Report(ev)
		}
	}
}
