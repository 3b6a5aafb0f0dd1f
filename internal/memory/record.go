// Package memory implements per-agent working memory: durable records of
// entity sightings, locations, and events with confidence decay and
// importance reinforcement. Each agent owns exactly one System; cross-agent
// reads are snapshots captured at observation time, never live references.
package memory

import (
	"time"

	"github.com/nidhogg/feral/internal/world"
)

// Kind discriminates what a record is about.
type Kind string

const (
	KindEntity   Kind = "entity"
	KindLocation Kind = "location"
	KindEvent    Kind = "event"
)

// Importance is an ordinal tier protecting a memory from early forgetting.
// The zero value means "unspecified" and defaults to ImportanceNormal.
type Importance int

const (
	ImportanceTrivial  Importance = 1
	ImportanceNormal   Importance = 2
	ImportanceHigh     Importance = 3
	ImportanceCritical Importance = 4
)

// String returns the tier name.
func (i Importance) String() string {
	switch i {
	case ImportanceTrivial:
		return "trivial"
	case ImportanceNormal:
		return "normal"
	case ImportanceHigh:
		return "high"
	case ImportanceCritical:
		return "critical"
	}
	return "unspecified"
}

// Relationship categorizes how the observer regards a remembered entity.
type Relationship string

const (
	RelationshipHostile  Relationship = "hostile"
	RelationshipNeutral  Relationship = "neutral"
	RelationshipFriendly Relationship = "friendly"
)

// EntityData is the payload of an entity-sighting record. Last-known fields
// are snapshots from the most recent observation and survive losing sight
// of the target.
type EntityData struct {
	TargetID          string          `json:"target_id"`
	Relationship      Relationship    `json:"relationship"`
	LastKnownPosition *world.Position `json:"last_known_position,omitempty"`
	LastKnownHealth   *int            `json:"last_known_health,omitempty"`
	IsVisible         bool            `json:"is_visible"`
}

// LocationData is the payload of a remembered place.
type LocationData struct {
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// EventData is the payload of a remembered happening.
type EventData struct {
	EventType    string   `json:"event_type"`
	Description  string   `json:"description"`
	Participants []string `json:"participants,omitempty"`
	Outcome      string   `json:"outcome,omitempty"`
}

// Record is one remembered fact. Exactly one of Entity, Location, Event is
// set, matching Kind.
type Record struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	Entity   *EntityData   `json:"entity,omitempty"`
	Location *LocationData `json:"location,omitempty"`
	Event    *EventData    `json:"event,omitempty"`

	CreatedTurn    uint64     `json:"created_turn"`
	LastAccessTurn uint64     `json:"last_access_turn"`
	Confidence     float64    `json:"confidence"` // [0,1]
	Importance     Importance `json:"importance"`

	CreatedAt time.Time `json:"created_at"`

	// anchor is the confidence as of LastAccessTurn. Decay sweeps derive
	// the current confidence from it so repeated sweeps at the same turn
	// stay idempotent instead of compounding.
	anchor float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
