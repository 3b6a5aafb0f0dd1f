package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nidhogg/feral/internal/world"
	"go.uber.org/zap"
)

// System is the working memory of one observer. It owns its records and a
// local turn counter kept in sync with the global one by the Manager.
// A System is exclusively owned by one agent and never shared.
type System struct {
	observer string
	records  map[string]*Record
	byTarget map[string]string         // target entity id -> record id
	byPlace  map[world.Position]string // location -> record id
	turn     uint64
	policy   DecayPolicy
	logger   *zap.Logger
}

// NewSystem creates an empty memory system for one observer.
func NewSystem(observer string, policy DecayPolicy, logger *zap.Logger) *System {
	return &System{
		observer: observer,
		records:  make(map[string]*Record),
		byTarget: make(map[string]string),
		byPlace:  make(map[world.Position]string),
		policy:   policy,
		logger:   logger,
	}
}

// Observer returns the owning agent's entity id.
func (s *System) Observer() string { return s.observer }

// SetTurn sets the local turn counter used for age computation.
func (s *System) SetTurn(turn uint64) { s.turn = turn }

// Turn returns the local turn counter.
func (s *System) Turn() uint64 { return s.turn }

// EntityObservation carries the optional fields of an entity sighting.
type EntityObservation struct {
	Position *world.Position
	Health   *int
}

// RememberEntity records a sighting of target. At most one entity record
// exists per target: re-remembering upserts the existing record, marks it
// visible, refreshes last-known fields when supplied, and restores full
// confidence (a fresh observation is certain by definition).
func (s *System) RememberEntity(targetID string, rel Relationship, obs EntityObservation) *Record {
	rec, ok := s.lookupEntity(targetID)
	if !ok {
		rec = s.newRecord(KindEntity, ImportanceNormal)
		rec.Entity = &EntityData{TargetID: targetID}
		s.records[rec.ID] = rec
		s.byTarget[targetID] = rec.ID
	}

	rec.Entity.Relationship = rel
	rec.Entity.IsVisible = true
	if obs.Position != nil {
		pos := *obs.Position
		rec.Entity.LastKnownPosition = &pos
	}
	if obs.Health != nil {
		h := *obs.Health
		rec.Entity.LastKnownHealth = &h
	}
	s.touch(rec, 1.0)
	return rec
}

// LoseSightOf marks the target's record invisible without deleting it; the
// last-known fields are retained. No-op when the target was never seen.
func (s *System) LoseSightOf(targetID string) {
	rec, ok := s.lookupEntity(targetID)
	if !ok {
		return
	}
	rec.Entity.IsVisible = false
}

// LocationOpts carries the optional fields of a remembered place.
type LocationOpts struct {
	Tags       []string
	Importance Importance
}

// RememberLocation creates or updates the record for a place. Records are
// keyed by tile: remembering the same coordinates updates description and
// tags in place.
func (s *System) RememberLocation(x, y int, description string, opts LocationOpts) *Record {
	key := world.Position{X: x, Y: y}
	var rec *Record
	if id, ok := s.byPlace[key]; ok {
		rec = s.records[id]
	} else {
		rec = s.newRecord(KindLocation, defaultImportance(opts.Importance))
		rec.Location = &LocationData{X: x, Y: y}
		s.records[rec.ID] = rec
		s.byPlace[key] = rec.ID
	}

	rec.Location.Description = description
	if opts.Tags != nil {
		rec.Location.Tags = append([]string(nil), opts.Tags...)
	}
	if opts.Importance != 0 && opts.Importance > rec.Importance {
		rec.Importance = opts.Importance
	}
	s.touch(rec, 1.0)
	return rec
}

// EventOpts carries the optional fields of a remembered event.
type EventOpts struct {
	Participants []string
	Outcome      string
	Importance   Importance
}

// RememberEvent always creates a new record; events are never deduplicated.
func (s *System) RememberEvent(eventType, description string, opts EventOpts) *Record {
	rec := s.newRecord(KindEvent, defaultImportance(opts.Importance))
	rec.Event = &EventData{
		EventType:    eventType,
		Description:  description,
		Participants: append([]string(nil), opts.Participants...),
		Outcome:      opts.Outcome,
	}
	s.records[rec.ID] = rec
	return rec
}

// GetMemoryForEntity returns the record for a target, if remembered.
func (s *System) GetMemoryForEntity(targetID string) (*Record, bool) {
	return s.lookupEntity(targetID)
}

// HasMemoryOfEntity reports whether the target is remembered.
func (s *System) HasMemoryOfEntity(targetID string) bool {
	_, ok := s.lookupEntity(targetID)
	return ok
}

// GetMemoriesByRelationship returns entity records with the given
// relationship, sorted by target id for determinism.
func (s *System) GetMemoriesByRelationship(rel Relationship) []*Record {
	var out []*Record
	for _, rec := range s.records {
		if rec.Kind == KindEntity && rec.Entity.Relationship == rel {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Entity.TargetID < out[j].Entity.TargetID
	})
	return out
}

// GetHostileEntities returns all remembered hostiles.
func (s *System) GetHostileEntities() []*Record {
	return s.GetMemoriesByRelationship(RelationshipHostile)
}

// GetRecentMemories returns up to n records ordered by last access turn
// descending, ties broken by creation turn descending.
func (s *System) GetRecentMemories(n int) []*Record {
	out := s.all()
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastAccessTurn != out[j].LastAccessTurn {
			return out[i].LastAccessTurn > out[j].LastAccessTurn
		}
		return out[i].CreatedTurn > out[j].CreatedTurn
	})
	return truncate(out, n)
}

// GetImportantMemories returns up to n records ordered by importance
// descending, ties broken by recency.
func (s *System) GetImportantMemories(n int) []*Record {
	out := s.all()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].LastAccessTurn > out[j].LastAccessTurn
	})
	return truncate(out, n)
}

// ReinforceMemory moves a record's confidence toward 1 and escalates its
// importance one tier (capped at critical), refreshing its last access.
// Unknown ids are a no-op, not an error.
func (s *System) ReinforceMemory(id string) {
	rec, ok := s.records[id]
	if !ok {
		return
	}
	if rec.Importance < ImportanceCritical {
		rec.Importance++
	}
	s.touch(rec, clamp01(rec.Confidence+s.policy.ReinforceBoost))
}

// Forget removes a record explicitly. Returns false for unknown ids.
func (s *System) Forget(id string) bool {
	rec, ok := s.records[id]
	if !ok {
		return false
	}
	s.drop(rec)
	return true
}

// ProcessDecay ages every record against the retention policy: confidence
// is recomputed from the last-access anchor, over-age records demote one
// tier, and records whose retained confidence falls below their tier's
// threshold are removed. Returns the number of records removed.
func (s *System) ProcessDecay() int {
	removed := 0
	for _, rec := range s.all() {
		var age uint64
		if s.turn > rec.LastAccessTurn {
			age = s.turn - rec.LastAccessTurn
		}

		tier := s.policy.Tier(rec.Importance)
		if tier.DemoteAfter > 0 && age > tier.DemoteAfter && rec.Importance > ImportanceTrivial {
			rec.Importance--
			tier = s.policy.Tier(rec.Importance)
		}

		rec.Confidence = tier.retained(rec.anchor, age)
		if tier.DropBelow > 0 && rec.Confidence < tier.DropBelow {
			s.drop(rec)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("decay sweep",
			zap.String("observer", s.observer),
			zap.Uint64("turn", s.turn),
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.records)))
	}
	return removed
}

// Records returns a snapshot of all records, sorted by creation turn then
// id for determinism.
func (s *System) Records() []*Record {
	out := s.all()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedTurn != out[j].CreatedTurn {
			return out[i].CreatedTurn < out[j].CreatedTurn
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of stored records.
func (s *System) Count() int { return len(s.records) }

func (s *System) newRecord(kind Kind, imp Importance) *Record {
	return &Record{
		ID:             uuid.NewString(),
		Kind:           kind,
		CreatedTurn:    s.turn,
		LastAccessTurn: s.turn,
		Confidence:     1.0,
		Importance:     imp,
		CreatedAt:      time.Now(),
		anchor:         1.0,
	}
}

// touch refreshes a record's access anchor at the current turn.
func (s *System) touch(rec *Record, confidence float64) {
	rec.Confidence = clamp01(confidence)
	rec.anchor = rec.Confidence
	rec.LastAccessTurn = s.turn
}

func (s *System) lookupEntity(targetID string) (*Record, bool) {
	id, ok := s.byTarget[targetID]
	if !ok {
		return nil, false
	}
	rec, ok := s.records[id]
	return rec, ok
}

func (s *System) drop(rec *Record) {
	delete(s.records, rec.ID)
	if rec.Kind == KindEntity && rec.Entity != nil {
		delete(s.byTarget, rec.Entity.TargetID)
	}
	if rec.Kind == KindLocation && rec.Location != nil {
		delete(s.byPlace, world.Position{X: rec.Location.X, Y: rec.Location.Y})
	}
}

func (s *System) all() []*Record {
	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

func truncate(recs []*Record, n int) []*Record {
	if n < 0 {
		n = 0
	}
	if n > len(recs) {
		n = len(recs)
	}
	return recs[:n]
}

func defaultImportance(imp Importance) Importance {
	if imp == 0 {
		return ImportanceNormal
	}
	return imp
}
