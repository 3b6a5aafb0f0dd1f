package behavior

import (
	"time"

	"github.com/nidhogg/feral/internal/world"
)

// TickInput carries the caller-supplied half of a tick context: the
// capability surfaces and the frame delta. The tree merges it with the
// bound entity and its blackboard.
type TickInput struct {
	Mover      Mover
	Pathfinder Pathfinder
	Delta      time.Duration
}

// Tree binds one root node to one entity and owns the blackboard
// constructed for that entity.
type Tree struct {
	root   Node
	entity *world.Entity
	board  *Blackboard
}

// NewTree creates a tree for an entity. Panics on a nil root; a tree
// without a root is a construction error, not a runtime condition.
func NewTree(root Node, entity *world.Entity) *Tree {
	if root == nil {
		panic("behavior: tree requires a root node")
	}
	return &Tree{
		root:   root,
		entity: entity,
		board:  NewBlackboard(),
	}
}

// Tick merges the input with the bound entity and blackboard and ticks the
// root, returning its status.
func (t *Tree) Tick(in TickInput) Status {
	ctx := &Context{
		Entity:     t.entity,
		Board:      t.board,
		Mover:      in.Mover,
		Pathfinder: in.Pathfinder,
		Delta:      in.Delta,
	}
	return t.root.Tick(ctx)
}

// SetRoot replaces the root node without attempting to preserve resume
// state. Panics on nil.
func (t *Tree) SetRoot(root Node) {
	if root == nil {
		panic("behavior: tree requires a root node")
	}
	t.root = root
}

// Blackboard exposes the owned blackboard for external seeding.
func (t *Tree) Blackboard() *Blackboard { return t.board }

// Entity returns the bound entity.
func (t *Tree) Entity() *world.Entity { return t.entity }

// Reset rewinds the whole tree to its initial state.
func (t *Tree) Reset() { t.root.Reset() }
