package ai

import (
	"math/rand"
	"time"

	"github.com/nidhogg/feral/internal/behavior"
	"github.com/nidhogg/feral/internal/memory"
	"github.com/nidhogg/feral/internal/world"
)

// Blackboard keys used by the builtin behaviors.
const (
	keyHome  = "home"
	keyRoute = "route"
	keyPrey  = "prey"
)

// RegisterBuiltins registers the stock behavior library on a coordinator.
func RegisterBuiltins(s *System) {
	s.RegisterBehavior("wander", Wander())
	s.RegisterBehavior("guard", Guard())
	s.RegisterBehavior("hunter", Hunter())
}

// Wander ambles in random directions with a pause between steps.
func Wander() Factory {
	return func(e *world.Entity) *behavior.Tree {
		root := behavior.NewSequence(
			behavior.NewWait(400*time.Millisecond),
			behavior.NewSucceeder(behavior.NewAction(stepRandom)),
		)
		return behavior.NewTree(root, e)
	}
}

// Guard holds a home tile, walking back whenever it drifts away. The home
// tile is captured from the entity's position on the first tick.
func Guard() Factory {
	return func(e *world.Entity) *behavior.Tree {
		root := behavior.NewSelector(
			behavior.NewSequence(
				behavior.NewInverter(behavior.NewCondition(hasHome)),
				behavior.NewAction(captureHome),
			),
			behavior.NewSequence(
				behavior.NewCondition(atHome),
				behavior.NewWait(800*time.Millisecond),
			),
			behavior.NewAction(stepHomeward),
		)
		return behavior.NewTree(root, e)
	}
}

// Hunter pursues the last known position of any remembered hostile,
// falling back to wandering when its memory holds no trail.
func Hunter() Factory {
	return func(e *world.Entity) *behavior.Tree {
		root := behavior.NewSelector(
			behavior.NewSequence(
				behavior.NewCondition(remembersHostile),
				behavior.NewAction(pursuePrey),
			),
			behavior.NewSequence(
				behavior.NewWait(400*time.Millisecond),
				behavior.NewSucceeder(behavior.NewAction(stepRandom)),
			),
		)
		return behavior.NewTree(root, e)
	}
}

func stepRandom(ctx *behavior.Context) behavior.Status {
	if ctx.Mover == nil || ctx.Entity == nil {
		return behavior.StatusFailure
	}
	dirs := []world.Direction{world.DirNorth, world.DirSouth, world.DirEast, world.DirWest}
	rand.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, d := range dirs {
		if ctx.Mover.MoveEntity(ctx.Entity, d) {
			return behavior.StatusSuccess
		}
	}
	return behavior.StatusFailure
}

func hasHome(ctx *behavior.Context) bool {
	return ctx.Board.Has(keyHome)
}

func captureHome(ctx *behavior.Context) behavior.Status {
	pos, ok := entityPos(ctx)
	if !ok {
		return behavior.StatusFailure
	}
	ctx.Board.Set(keyHome, pos)
	return behavior.StatusSuccess
}

func atHome(ctx *behavior.Context) bool {
	home, ok := ctx.Board.Position(keyHome)
	if !ok {
		return false
	}
	pos, ok := entityPos(ctx)
	return ok && pos == home
}

// stepHomeward walks one tile along a cached route to home, recomputing
// the route when it is missing or blocked. Running until home is reached.
func stepHomeward(ctx *behavior.Context) behavior.Status {
	home, ok := ctx.Board.Position(keyHome)
	if !ok {
		return behavior.StatusFailure
	}
	return walkRoute(ctx, home)
}

func remembersHostile(ctx *behavior.Context) bool {
	mem, ok := ctx.Board.Memory(MemoryKey)
	if !ok {
		return false
	}
	// Only warm trails count: a sighting already marked out of view has
	// been searched and abandoned.
	for _, rec := range mem.GetHostileEntities() {
		if rec.Entity.IsVisible && rec.Entity.LastKnownPosition != nil {
			ctx.Board.Set(keyPrey, rec.Entity.TargetID)
			return true
		}
	}
	return false
}

// pursuePrey walks toward the prey's last known position. Arriving without
// catching it cools the trail: the sighting is marked out of view and a
// search event is remembered.
func pursuePrey(ctx *behavior.Context) behavior.Status {
	mem, ok := ctx.Board.Memory(MemoryKey)
	if !ok {
		return behavior.StatusFailure
	}
	targetID, ok := ctx.Board.EntityRef(keyPrey)
	if !ok {
		return behavior.StatusFailure
	}
	rec, ok := mem.GetMemoryForEntity(targetID)
	if !ok || rec.Entity.LastKnownPosition == nil {
		ctx.Board.Delete(keyPrey)
		return behavior.StatusFailure
	}

	status := walkRoute(ctx, *rec.Entity.LastKnownPosition)
	if status == behavior.StatusSuccess {
		mem.LoseSightOf(targetID)
		mem.RememberEvent("search", "trail went cold", memory.EventOpts{
			Participants: []string{targetID},
		})
		ctx.Board.Delete(keyPrey)
	}
	return status
}

// walkRoute advances one tile per tick along a pathfinder route to goal,
// caching the route on the blackboard. Success on arrival, failure when no
// route exists or a step is blocked.
func walkRoute(ctx *behavior.Context, goal world.Position) behavior.Status {
	pos, ok := entityPos(ctx)
	if !ok {
		return behavior.StatusFailure
	}
	if pos == goal {
		ctx.Board.Delete(keyRoute)
		return behavior.StatusSuccess
	}
	if ctx.Mover == nil || ctx.Pathfinder == nil {
		return behavior.StatusFailure
	}

	route, ok := ctx.Board.Path(keyRoute)
	if !ok || len(route) == 0 || route[len(route)-1] != goal {
		route, ok = ctx.Pathfinder.FindPath(pos, goal)
		if !ok {
			ctx.Board.Delete(keyRoute)
			return behavior.StatusFailure
		}
	}
	if len(route) == 0 {
		ctx.Board.Delete(keyRoute)
		return behavior.StatusSuccess
	}

	next := route[0]
	dir, ok := pos.Toward(next)
	if !ok || !ctx.Mover.MoveEntity(ctx.Entity, dir) {
		ctx.Board.Delete(keyRoute)
		return behavior.StatusFailure
	}
	ctx.Board.Set(keyRoute, route[1:])

	if now, ok := entityPos(ctx); ok && now == goal {
		ctx.Board.Delete(keyRoute)
		return behavior.StatusSuccess
	}
	return behavior.StatusRunning
}

func entityPos(ctx *behavior.Context) (world.Position, bool) {
	if ctx.Entity == nil {
		return world.Position{}, false
	}
	return ctx.Entity.Position()
}
