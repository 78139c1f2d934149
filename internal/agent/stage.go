package agent

import "Unbewohnte/BoldBriefing/internal/article"

// Stage is the pipeline step the agent is currently in.
type Stage string

const (
	StageIdle          Stage = "IDLE"
	StageScanning      Stage = "SCANNING"
	StageRanking       Stage = "RANKING"
	StageVerifying     Stage = "VERIFYING"
	StageGeneratingArt Stage = "GENERATING_ART"
	StagePublishing    Stage = "PUBLISHING"
)

// Stages lists every stage in pipeline order.
func Stages() []Stage {
	return []Stage{
		StageIdle,
		StageScanning,
		StageRanking,
		StageVerifying,
		StageGeneratingArt,
		StagePublishing,
	}
}

type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeNoTrend   Outcome = "no_trend"
	OutcomeRejected  Outcome = "rejected"
	// OutcomeSkipped means the region pool was empty.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeAborted means the preflight check failed.
	OutcomeAborted   Outcome = "aborted"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeBusy      Outcome = "busy"
)

// Report describes how a single cycle ended.
type Report struct {
	Outcome  Outcome
	Region   article.Region
	Category article.Category
	Topic    string
	// Brief is set for published and rejected cycles.
	Brief *article.Brief
}

type EventType string

const (
	EventStage     EventType = "stage"
	EventBrief     EventType = "brief"
	EventAutopilot EventType = "autopilot"
	EventRegions   EventType = "regions"
)

// Event is delivered to subscribers whenever observable agent state changes.
type Event struct {
	Type      EventType        `json:"type"`
	Stage     Stage            `json:"stage,omitempty"`
	Brief     *article.Brief   `json:"brief,omitempty"`
	Autopilot bool             `json:"autopilot"`
	Regions   []article.Region `json:"regions,omitempty"`
}

// State is a point-in-time view of the agent.
type State struct {
	Stage     Stage            `json:"stage"`
	Autopilot bool             `json:"autopilot"`
	Regions   []article.Region `json:"regions"`
	Running   bool             `json:"running"`
	FeedSize  int              `json:"feedSize"`
}
