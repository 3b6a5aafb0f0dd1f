package world

import "sync"

// ComponentKind identifies a component slot on an entity.
type ComponentKind string

const (
	ComponentPosition ComponentKind = "position"
	ComponentAI       ComponentKind = "ai"
	ComponentHealth   ComponentKind = "health"
)

// PositionComponent places an entity on the tile grid.
type PositionComponent struct {
	Pos Position `json:"pos"`
}

// AIComponent marks an entity as AI-controlled.
type AIComponent struct {
	Behavior string `json:"behavior"` // assigned behavior name, empty until assigned
}

// HealthComponent tracks hit points.
type HealthComponent struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Entity is a world object identified by a stable id with a small set of
// typed components attached. Component access is the narrow surface the AI
// core consumes; everything else about an entity stays opaque to it.
type Entity struct {
	ID string

	mu         sync.RWMutex
	components map[ComponentKind]any
}

// NewEntity creates an entity with no components.
func NewEntity(id string) *Entity {
	return &Entity{
		ID:         id,
		components: make(map[ComponentKind]any),
	}
}

// SetComponent attaches or replaces a component.
func (e *Entity) SetComponent(kind ComponentKind, c any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.components[kind] = c
}

// Component returns the component of the given kind, if attached.
func (e *Entity) Component(kind ComponentKind) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.components[kind]
	return c, ok
}

// HasComponent reports whether a component of the given kind is attached.
func (e *Entity) HasComponent(kind ComponentKind) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.components[kind]
	return ok
}

// RemoveComponent detaches a component. Returns false if it was absent.
func (e *Entity) RemoveComponent(kind ComponentKind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.components[kind]; !ok {
		return false
	}
	delete(e.components, kind)
	return true
}

// Position is a convenience accessor for the position component.
func (e *Entity) Position() (Position, bool) {
	c, ok := e.Component(ComponentPosition)
	if !ok {
		return Position{}, false
	}
	pc, ok := c.(*PositionComponent)
	if !ok {
		return Position{}, false
	}
	return pc.Pos, true
}
