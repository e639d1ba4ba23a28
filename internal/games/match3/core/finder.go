package core

// FindMatch builds the match tree rooted at root. It returns nil when root
// is not part of any run of three or more.
//
// Runs are grown along both axes from root. Only occupied, idle tiles of
// root's type take part; a tile in transition acts as a wall. Every tile a
// run adds is then scanned along the perpendicular axis, which discovers
// L, T and plus shapes. A tile the tree already holds is counted in the
// run's unlisted total instead of being listed again.
func FindMatch(g *Grid[*Tile], root *Tile) *Match {
	if g == nil || root == nil || root.typ < 0 || g.peek(root.pos) != root {
		return nil
	}
	tree := NewMatch(root)
	extend(g, tree, root, AxisHorizontal, root.typ)
	extend(g, tree, root, AxisVertical, root.typ)
	if tree.Len() == 1 {
		return nil
	}
	return tree
}

func extend(g *Grid[*Tile], tree *Match, origin *Tile, axis Axis, typ int) {
	r := scanRun(g, tree, origin, axis, typ)
	if r.Count() <= 1 {
		return
	}
	added := r.Tiles()
	tree.Merge(r)
	for _, t := range added {
		extend(g, tree, t, axis.Perpendicular(), typ)
	}
}

// scanRun collects the tiles on both sides of origin along axis. The
// returned match lists only tiles the tree does not already hold.
func scanRun(g *Grid[*Tile], tree *Match, origin *Tile, axis Axis, typ int) *Match {
	r := NewMatch()
	r.orientation = axis.Orientation()
	a, b := axis.Dirs()
	for _, d := range [2]Dir{a, b} {
		for c := origin.pos.Step(d); ; c = c.Step(d) {
			t := g.peek(c)
			if t == nil || !t.Idle() || t.typ != typ {
				break
			}
			if tree.Contains(t) {
				r.unlisted++
				continue
			}
			r.Add(t)
		}
	}
	return r
}

// IsPartOfMatch reports whether t currently completes a run of three with
// same-type neighbors on either axis. It looks at types only and ignores
// the idle flag; refill uses it to pick safe types.
func IsPartOfMatch(g *Grid[*Tile], t *Tile) bool {
	if g == nil || t == nil || t.typ < 0 {
		return false
	}
	if countSame(g, t, DirLeft)+countSame(g, t, DirRight) > 1 {
		return true
	}
	return countSame(g, t, DirDown)+countSame(g, t, DirUp) > 1
}

func countSame(g *Grid[*Tile], t *Tile, d Dir) int {
	n := 0
	for c := t.pos.Step(d); ; c = c.Step(d) {
		next := g.peek(c)
		if next == nil || next.typ != t.typ {
			return n
		}
		n++
	}
}
