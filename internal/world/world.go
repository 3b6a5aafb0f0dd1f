package world

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// World owns the tile grid and the entities placed on it. It realizes the
// movement and pathfinding capabilities the AI core consumes.
type World struct {
	grid     *Grid
	entities map[string]*Entity
	mu       sync.RWMutex
	logger   *zap.Logger
}

// New creates an empty world over the given grid.
func New(grid *Grid, logger *zap.Logger) *World {
	return &World{
		grid:     grid,
		entities: make(map[string]*Entity),
		logger:   logger,
	}
}

// Grid returns the underlying tile grid.
func (w *World) Grid() *Grid { return w.grid }

// Spawn places an entity into the world. An entity with the same id is
// replaced.
func (w *World) Spawn(e *Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities[e.ID] = e
}

// Remove deletes an entity from the world. Returns false if absent.
func (w *World) Remove(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[id]; !ok {
		return false
	}
	delete(w.entities, id)
	return true
}

// Entity looks up an entity by id.
func (w *World) Entity(id string) (*Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

// Entities returns all entities sorted by id for deterministic iteration.
func (w *World) Entities() []*Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Entity, 0, len(w.entities))
	for _, e := range w.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MoveEntity shifts an entity one tile in the given direction. Returns false
// when the entity has no position or the destination tile is blocked.
func (w *World) MoveEntity(e *Entity, dir Direction) bool {
	pos, ok := e.Position()
	if !ok {
		return false
	}
	next := pos.Step(dir)
	if !w.grid.Walkable(next) {
		return false
	}
	e.SetComponent(ComponentPosition, &PositionComponent{Pos: next})
	w.logger.Debug("entity moved",
		zap.String("entity", e.ID),
		zap.String("dir", string(dir)),
		zap.Int("x", next.X),
		zap.Int("y", next.Y))
	return true
}

// FindPath exposes grid pathfinding as a capability surface.
func (w *World) FindPath(from, to Position) ([]Position, bool) {
	return w.grid.FindPath(from, to)
}
