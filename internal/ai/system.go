// Package ai coordinates NPC agents: it maps entities to behavior trees,
// owns the behavior-factory registry, injects each agent's memory system
// into its tree's blackboard, and drives per-frame ticking and per-turn
// memory decay.
package ai

import (
	"sort"
	"sync"
	"time"

	"github.com/nidhogg/feral/internal/behavior"
	"github.com/nidhogg/feral/internal/events"
	"github.com/nidhogg/feral/internal/memory"
	"github.com/nidhogg/feral/internal/world"
	"go.uber.org/zap"
)

// MemoryKey is the well-known blackboard key under which an agent's memory
// system is injected.
const MemoryKey = "memorySystem"

// Factory builds a behavior tree for an entity.
type Factory func(e *world.Entity) *behavior.Tree

// AgentInfo is a read-only snapshot of one coordinated agent, for
// diagnostics.
type AgentInfo struct {
	EntityID   string `json:"entity_id"`
	Behavior   string `json:"behavior"`
	LastStatus string `json:"last_status"`
}

// System ties agent entities to behavior trees and memory systems. It is
// scheduled before movement resolution each frame so tick decisions are
// visible to movement the same step; entities are processed strictly in
// the order the caller supplies.
type System struct {
	behaviors  map[string]Factory
	trees      map[string]*behavior.Tree
	lastStatus map[string]behavior.Status

	memories   *memory.Manager
	mover      behavior.Mover
	pathfinder behavior.Pathfinder
	emitter    events.Emitter

	mu     sync.RWMutex
	logger *zap.Logger
}

// NewSystem creates a coordinator. The registries it owns live and die
// with it; Clear tears both down together.
func NewSystem(memories *memory.Manager, mover behavior.Mover, pathfinder behavior.Pathfinder, emitter events.Emitter, logger *zap.Logger) *System {
	return &System{
		behaviors:  make(map[string]Factory),
		trees:      make(map[string]*behavior.Tree),
		lastStatus: make(map[string]behavior.Status),
		memories:   memories,
		mover:      mover,
		pathfinder: pathfinder,
		emitter:    emitter,
		logger:     logger,
	}
}

// RegisterBehavior adds a named tree factory to the registry, replacing
// any previous registration under the same name.
func (s *System) RegisterBehavior(name string, f Factory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.behaviors[name] = f
}

// Behavior looks up a registered factory.
func (s *System) Behavior(name string) (Factory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.behaviors[name]
	return f, ok
}

// AssignBehavior builds and attaches a tree for the entity. Returns false
// when the name is unregistered or the entity lacks the AI marker
// component; neither is an error.
func (s *System) AssignBehavior(e *world.Entity, name string) bool {
	s.mu.Lock()
	factory, ok := s.behaviors[name]
	s.mu.Unlock()
	if !ok {
		s.logger.Warn("unknown behavior", zap.String("name", name), zap.String("entity", e.ID))
		return false
	}

	c, ok := e.Component(world.ComponentAI)
	if !ok {
		return false
	}
	if aic, ok := c.(*world.AIComponent); ok {
		aic.Behavior = name
	}

	tree := factory(e)
	tree.Blackboard().Set(MemoryKey, s.memories.GetSystem(e.ID))

	s.mu.Lock()
	s.trees[e.ID] = tree
	delete(s.lastStatus, e.ID)
	s.mu.Unlock()

	s.logger.Info("behavior assigned",
		zap.String("entity", e.ID),
		zap.String("behavior", name))
	return true
}

// OnEntityAdded lazily creates the entity's memory system and, when a tree
// is already attached, injects the reference into its blackboard.
func (s *System) OnEntityAdded(e *world.Entity) {
	sys := s.memories.GetSystem(e.ID)

	s.mu.RLock()
	tree, hasTree := s.trees[e.ID]
	s.mu.RUnlock()
	if hasTree {
		tree.Blackboard().Set(MemoryKey, sys)
	}

	s.emitter.Emit(events.AIEntityAdded, map[string]any{"entity": e.ID})
}

// OnEntityRemoved releases the entity's memory system and detaches its
// tree, abandoning any running subtree.
func (s *System) OnEntityRemoved(e *world.Entity) {
	s.memories.RemoveSystem(e.ID)

	s.mu.Lock()
	delete(s.trees, e.ID)
	delete(s.lastStatus, e.ID)
	s.mu.Unlock()

	s.emitter.Emit(events.AIEntityRemoved, map[string]any{"entity": e.ID})
}

// Update ticks every supplied entity that carries the AI marker, a
// position, and an attached tree, in the order given. Each tick emits an
// ai:tick event with the resulting status; the status is diagnostic only.
func (s *System) Update(entities []*world.Entity, delta time.Duration) {
	in := behavior.TickInput{
		Mover:      s.mover,
		Pathfinder: s.pathfinder,
		Delta:      delta,
	}

	for _, e := range entities {
		if !e.HasComponent(world.ComponentAI) || !e.HasComponent(world.ComponentPosition) {
			continue
		}
		s.mu.RLock()
		tree, ok := s.trees[e.ID]
		s.mu.RUnlock()
		if !ok {
			continue
		}

		status := tree.Tick(in)

		s.mu.Lock()
		s.lastStatus[e.ID] = status
		s.mu.Unlock()

		s.emitter.Emit(events.AITick, map[string]any{
			"entity": e.ID,
			"status": status.String(),
		})
	}
}

// SetGlobalTurn advances the global turn for every memory system. Invoked
// once per discrete world turn, decoupled from frame ticking.
func (s *System) SetGlobalTurn(turn uint64) {
	s.memories.SetGlobalTurn(turn)
}

// ProcessMemoryDecay sweeps every agent's memory. Returns the number of
// records forgotten.
func (s *System) ProcessMemoryDecay() int {
	return s.memories.ProcessAllDecay()
}

// Memories exposes the owned memory manager.
func (s *System) Memories() *memory.Manager { return s.memories }

// Tree returns the entity's attached tree, if any.
func (s *System) Tree(entityID string) (*behavior.Tree, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trees[entityID]
	return t, ok
}

// Agents returns diagnostic snapshots of every coordinated agent, sorted
// by entity id.
func (s *System) Agents() []AgentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AgentInfo, 0, len(s.trees))
	for id, tree := range s.trees {
		info := AgentInfo{EntityID: id}
		if e := tree.Entity(); e != nil {
			if c, ok := e.Component(world.ComponentAI); ok {
				if aic, ok := c.(*world.AIComponent); ok {
					info.Behavior = aic.Behavior
				}
			}
		}
		if st, ok := s.lastStatus[id]; ok {
			info.LastStatus = st.String()
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}

// Clear tears down the factory registry, all attached trees, and every
// memory system together.
func (s *System) Clear() {
	s.mu.Lock()
	s.behaviors = make(map[string]Factory)
	s.trees = make(map[string]*behavior.Tree)
	s.lastStatus = make(map[string]behavior.Status)
	s.mu.Unlock()
	s.memories.Clear()
}
