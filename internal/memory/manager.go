package memory

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Manager owns exactly one System per agent entity, created lazily and
// destroyed explicitly. It fans global turn advances and decay sweeps out
// to every owned system.
type Manager struct {
	systems map[string]*System
	policy  DecayPolicy
	turn    uint64
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewManager creates an empty registry applying the given decay policy to
// every system it creates.
func NewManager(policy DecayPolicy, logger *zap.Logger) *Manager {
	return &Manager{
		systems: make(map[string]*System),
		policy:  policy,
		logger:  logger,
	}
}

// GetSystem returns the one memory system for an entity, creating it on
// first use. Repeated calls return the identical instance.
func (m *Manager) GetSystem(entityID string) *System {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sys, ok := m.systems[entityID]; ok {
		return sys
	}
	sys := NewSystem(entityID, m.policy, m.logger)
	sys.SetTurn(m.turn)
	m.systems[entityID] = sys
	m.logger.Debug("memory system created", zap.String("entity", entityID))
	return sys
}

// RemoveSystem destroys an entity's memory system. Returns false if none
// existed.
func (m *Manager) RemoveSystem(entityID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.systems[entityID]; !ok {
		return false
	}
	delete(m.systems, entityID)
	m.logger.Debug("memory system removed", zap.String("entity", entityID))
	return true
}

// SetGlobalTurn advances the global turn counter and syncs every owned
// system's local counter.
func (m *Manager) SetGlobalTurn(turn uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turn = turn
	for _, sys := range m.systems {
		sys.SetTurn(turn)
	}
}

// GlobalTurn returns the current global turn counter.
func (m *Manager) GlobalTurn() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turn
}

// ProcessAllDecay sweeps every owned system. Returns the total number of
// records removed.
func (m *Manager) ProcessAllDecay() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for _, sys := range m.systems {
		removed += sys.ProcessDecay()
	}
	return removed
}

// EntityIDs returns the ids of every entity with a memory system, sorted.
func (m *Manager) EntityIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.systems))
	for id := range m.systems {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear drops every owned system.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems = make(map[string]*System)
}
