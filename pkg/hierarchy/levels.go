package hierarchy

// Levels is the result of [AssignLevels].
type Levels struct {
	// ByID maps every reachable entity to its tier (0 = roots).
	ByID map[string]int
	// Order lists ids in the order they were first assigned a level.
	Order []string
	// Max is the deepest level reached by the walk, counting revisits of
	// already placed entities. It sizes the canvas and may exceed the deepest
	// occupied tier when the graph contains cycles.
	Max int
}

// Level returns the tier of id and whether it was reached at all.
func (l Levels) Level(id string) (int, bool) {
	lvl, ok := l.ByID[id]
	return lvl, ok
}

// FindRoots returns the ids of entities that declare no parents, in input
// order. If there are none, the first entity is returned as a synthetic root.
func FindRoots(g *Graph) []string {
	var roots []string
	for _, e := range g.Entities() {
		if e.IsRoot() {
			roots = append(roots, e.ID)
		}
	}
	if len(roots) == 0 && g.Len() > 0 {
		roots = []string{g.Entities()[0].ID}
	}
	return roots
}

type frame struct {
	id    string
	level int
}

// AssignLevels walks the graph depth-first from each root in turn. The
// visited set is shared across roots, so the first traversal to reach an
// entity fixes its level. Entities not reachable from a root are left out.
func AssignLevels(g *Graph, roots []string) Levels {
	children := g.Children()
	out := Levels{ByID: make(map[string]int)}
	visited := make(map[string]bool, g.Len())

	for _, root := range roots {
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			out.Max = max(out.Max, f.level)
			if visited[f.id] {
				continue
			}
			visited[f.id] = true
			out.ByID[f.id] = f.level
			out.Order = append(out.Order, f.id)

			kids := children[f.id]
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, frame{id: kids[i], level: f.level + 1})
			}
		}
	}
	return out
}

// GroupByLevel re-indexes levels into tiers. Ids within a tier keep the
// order in which they were first assigned.
func GroupByLevel(l Levels) [][]string {
	var groups [][]string
	for _, id := range l.Order {
		lvl := l.ByID[id]
		for len(groups) <= lvl {
			groups = append(groups, nil)
		}
		groups[lvl] = append(groups[lvl], id)
	}
	return groups
}
