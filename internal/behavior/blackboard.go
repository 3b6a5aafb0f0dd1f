package behavior

import (
	"reflect"

	"github.com/nidhogg/feral/internal/memory"
	"github.com/nidhogg/feral/internal/world"
)

// Blackboard is a per-entity key/value scratch store used for inter-node
// communication within and across ticks. It is exclusively owned by one
// tree and never shared between entities.
//
// Values are restricted to a small closed set of kinds:
//
//	world.Position      a tile position
//	string              an entity reference (entity id)
//	float64             a numeric value
//	bool                a flag
//	[]world.Position    a path or list of positions
//	*memory.System      the agent's memory system (injected by the coordinator)
//
// Missing keys are a normal, checkable state, never an error. Values of any
// other kind are silently dropped by Set; integer numerics are widened to
// float64.
type Blackboard struct {
	values map[string]any
}

// NewBlackboard creates an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{values: make(map[string]any)}
}

// Set stores a value under key. See the type's doc for permitted kinds.
func (b *Blackboard) Set(key string, value any) {
	switch v := value.(type) {
	case world.Position, string, float64, bool, []world.Position, *memory.System:
		b.values[key] = value
	case int:
		b.values[key] = float64(v)
	case int64:
		b.values[key] = float64(v)
	case float32:
		b.values[key] = float64(v)
	}
}

// Get returns the raw value for key and whether it is present.
func (b *Blackboard) Get(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

// GetOrDefault returns the value for key, or def when absent.
func (b *Blackboard) GetOrDefault(key string, def any) any {
	if v, ok := b.values[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (b *Blackboard) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Delete removes key. Returns false if it was absent.
func (b *Blackboard) Delete(key string) bool {
	if _, ok := b.values[key]; !ok {
		return false
	}
	delete(b.values, key)
	return true
}

// Clear removes every key.
func (b *Blackboard) Clear() {
	b.values = make(map[string]any)
}

// IsConditionMet reports whether key is present and its value equals
// expected. Absent keys are simply false, never an error.
func (b *Blackboard) IsConditionMet(key string, expected any) bool {
	v, ok := b.values[key]
	if !ok {
		return false
	}
	return reflect.DeepEqual(v, expected)
}

// Keys returns the stored key names in unspecified order.
func (b *Blackboard) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	return keys
}

// Position returns the position stored under key, if any.
func (b *Blackboard) Position(key string) (world.Position, bool) {
	v, ok := b.values[key].(world.Position)
	return v, ok
}

// EntityRef returns the entity id stored under key, if any.
func (b *Blackboard) EntityRef(key string) (string, bool) {
	v, ok := b.values[key].(string)
	return v, ok
}

// Number returns the numeric value stored under key, if any.
func (b *Blackboard) Number(key string) (float64, bool) {
	v, ok := b.values[key].(float64)
	return v, ok
}

// Bool returns the flag stored under key, if any.
func (b *Blackboard) Bool(key string) (bool, bool) {
	v, ok := b.values[key].(bool)
	return v, ok
}

// Path returns the position list stored under key, if any.
func (b *Blackboard) Path(key string) ([]world.Position, bool) {
	v, ok := b.values[key].([]world.Position)
	return v, ok
}

// Memory returns the memory system stored under key, if any.
func (b *Blackboard) Memory(key string) (*memory.System, bool) {
	v, ok := b.values[key].(*memory.System)
	return v, ok
}
