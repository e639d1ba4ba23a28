package core

import "fmt"

// ScanForMoves returns every tile that can complete a run of three by one
// swap, in row-major order. Gems are always included.
func (b *Board) ScanForMoves() []*Tile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ScanForMoves(b.grid)
}

// Hint returns one movable tile chosen at random, or nil when the board
// has no moves.
func (b *Board) Hint() *Tile {
	b.mu.Lock()
	defer b.mu.Unlock()
	moves := ScanForMoves(b.grid)
	if len(moves) == 0 {
		return nil
	}
	return moves[b.rng.Intn(len(moves))]
}

// Move is a swap of the tile at From with its neighbor in direction Dir.
type Move struct {
	From Coord `json:"from"`
	Dir  Dir   `json:"dir"`
}

// To returns the partner cell.
func (m Move) To() Coord { return m.From.Step(m.Dir) }

func (m Move) String() string { return fmt.Sprintf("%v %v", m.From, m.Dir) }

// Moves lists every productive swap in row-major order, one entry per
// tile and direction. A gem is listed once per idle neighbor.
func (b *Board) Moves() []Move {
	b.mu.Lock()
	defer b.mu.Unlock()

	var moves []Move
	w, h := b.grid.Dimensions()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := b.grid.peek(C(x, y))
			if t == nil || !t.Idle() {
				continue
			}
			for _, d := range moveDirs(b.grid, t) {
				moves = append(moves, Move{From: t.pos, Dir: d})
			}
		}
	}
	return moves
}

// ScanForMoves checks each idle tile T against each direction d. With
// P = T+d as the swap partner, T moved into P completes a run when two
// idle tiles of T's type sit straight ahead (P+d, P+2d) or on the line
// through P perpendicular to d, either both on one side or one on each.
// Nothing on the grid is mutated.
func ScanForMoves(g *Grid[*Tile]) []*Tile {
	var moves []*Tile
	w, h := g.Dimensions()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := g.peek(C(x, y))
			if t == nil || !t.Idle() {
				continue
			}
			if t.IsGem() || canMove(g, t) {
				moves = append(moves, t)
			}
		}
	}
	return moves
}

func canMove(g *Grid[*Tile], t *Tile) bool {
	return len(moveDirs(g, t)) > 0
}

// moveDirs returns the directions t can be swapped in to complete a run.
func moveDirs(g *Grid[*Tile], t *Tile) []Dir {
	var dirs []Dir
	for _, d := range Directions {
		p := t.pos.Step(d)
		partner := g.peek(p)
		if partner == nil || !partner.Idle() {
			continue
		}
		if t.IsGem() || completesRun(g, t.typ, p, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func completesRun(g *Grid[*Tile], typ int, p Coord, d Dir) bool {
	if typ < 0 {
		return false
	}
	cw := d.Clockwise().Delta()
	ccw := d.CounterClockwise().Delta()
	ahead := d.Delta()
	patterns := [4][2]Coord{
		{p.Add(ahead), p.Add(ahead.Scale(2))},
		{p.Add(cw), p.Add(cw.Scale(2))},
		{p.Add(ccw), p.Add(ccw.Scale(2))},
		{p.Add(cw), p.Add(ccw)},
	}
	for _, pat := range patterns {
		if sameIdle(g, pat[0], typ) && sameIdle(g, pat[1], typ) {
			return true
		}
	}
	return false
}

func sameIdle(g *Grid[*Tile], c Coord, typ int) bool {
	t := g.peek(c)
	return t != nil && t.Idle() && t.typ == typ
}
