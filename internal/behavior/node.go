// Package behavior implements a resumable behavior-tree engine for NPC
// agents. Trees are ticked cooperatively: a node returning StatusRunning
// keeps its own resume state (child index, elapsed wait, iteration count)
// and continues on the next tick. There are no goroutines and no shared
// state between trees; each tree exclusively owns its blackboard.
package behavior

import (
	"time"

	"github.com/nidhogg/feral/internal/world"
)

// Node is a single unit of behavior-tree logic.
type Node interface {
	// Tick evaluates the node and returns its status. Domain failure is
	// expressed as StatusFailure, never as a panic or error.
	Tick(ctx *Context) Status

	// Reset rewinds the node to its initial state. Composites and
	// decorators forward the reset to their children.
	Reset()
}

// Mover is the movement capability supplied by the simulation.
type Mover interface {
	MoveEntity(e *world.Entity, dir world.Direction) bool
}

// Pathfinder is the pathfinding capability supplied by the simulation.
type Pathfinder interface {
	FindPath(from, to world.Position) ([]world.Position, bool)
}

// Context carries everything a node may touch during one tick: the bound
// entity, the tree's blackboard, the capability surfaces, and the frame
// delta. It is rebuilt by the tree on every tick from the caller-supplied
// TickInput.
type Context struct {
	Entity     *world.Entity
	Board      *Blackboard
	Mover      Mover
	Pathfinder Pathfinder
	Delta      time.Duration
}
