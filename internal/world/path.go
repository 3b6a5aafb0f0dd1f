package world

import "container/heap"

// FindPath runs A* over the grid and returns the tile sequence from start to
// goal, excluding start and including goal. Returns false when goal is
// unreachable or blocked. Movement is 4-directional with uniform cost.
func (g *Grid) FindPath(start, goal Position) ([]Position, bool) {
	if !g.Walkable(goal) || !g.InBounds(start) {
		return nil, false
	}
	if start == goal {
		return []Position{}, true
	}

	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{pos: start, cost: 0, priority: start.Manhattan(goal)})

	cameFrom := make(map[Position]Position)
	costSoFar := map[Position]int{start: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if current.pos == goal {
			return reconstruct(cameFrom, start, goal), true
		}

		for _, d := range []Direction{DirNorth, DirEast, DirSouth, DirWest} {
			next := current.pos.Step(d)
			if !g.Walkable(next) {
				continue
			}
			cost := costSoFar[current.pos] + 1
			if prev, seen := costSoFar[next]; seen && cost >= prev {
				continue
			}
			costSoFar[next] = cost
			cameFrom[next] = current.pos
			heap.Push(open, &pathNode{
				pos:      next,
				cost:     cost,
				priority: cost + next.Manhattan(goal),
			})
		}
	}
	return nil, false
}

func reconstruct(cameFrom map[Position]Position, start, goal Position) []Position {
	var rev []Position
	for p := goal; p != start; p = cameFrom[p] {
		rev = append(rev, p)
	}
	path := make([]Position, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

type pathNode struct {
	pos      Position
	cost     int
	priority int
	index    int
}

type pathQueue []*pathNode

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *pathQueue) Push(x interface{}) { n := x.(*pathNode); n.index = len(*q); *q = append(*q, n) }
func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}
