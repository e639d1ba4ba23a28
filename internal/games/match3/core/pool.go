package core

import "fmt"

// Pool recycles Tile entities. Released tiles go onto a free list and are
// handed out again by Acquire; the pool grows when the free list has no
// idle tile. The total number of tiles never shrinks.
type Pool struct {
	rng    Random
	types  int
	tiles  []*Tile
	free   []*Tile
	nextID int
}

// NewPool creates an empty pool producing tiles of types [0, types).
func NewPool(types int, rng Random) *Pool {
	if types < 1 {
		types = 1
	}
	if rng == nil {
		rng = NewRandom(1)
	}
	return &Pool{rng: rng, types: types}
}

// Types returns the size of the type palette.
func (p *Pool) Types() int { return p.types }

// Size returns the total number of tiles ever created by the pool.
func (p *Pool) Size() int { return len(p.tiles) }

// ActiveCount returns the number of tiles currently checked out.
func (p *Pool) ActiveCount() int { return len(p.tiles) - len(p.free) }

// Prealloc creates n inactive tiles up front.
func (p *Pool) Prealloc(n int) error {
	if n < 0 {
		return fmt.Errorf("pool: cannot preallocate %d tiles", n)
	}
	for i := 0; i < n; i++ {
		p.free = append(p.free, p.grow())
	}
	return nil
}

func (p *Pool) grow() *Tile {
	t := newTile(p.nextID)
	p.nextID++
	p.tiles = append(p.tiles, t)
	return t
}

// Acquire returns an inactive, idle tile with no power-up. Tiles still in
// transition are skipped and stay on the free list.
func (p *Pool) Acquire() *Tile {
	var t *Tile
	for i := len(p.free) - 1; i >= 0; i-- {
		if p.free[i].Idle() {
			t = p.free[i]
			last := len(p.free) - 1
			p.free[i] = p.free[last]
			p.free = p.free[:last]
			break
		}
	}
	if t == nil {
		t = p.grow()
	}
	t.active = true
	t.kind = PowerupNone
	t.typ = 0
	return t
}

// AcquireRandom returns a tile with a random type.
func (p *Pool) AcquireRandom() *Tile {
	t := p.Acquire()
	p.RandomizeType(t)
	return t
}

// Release returns a tile to the pool. Releasing nil or an already
// inactive tile is a no-op. A tile from another pool is adopted and
// given a fresh ID.
func (p *Pool) Release(t *Tile) {
	if t == nil || (!t.active && p.owns(t)) {
		return
	}
	if !p.owns(t) {
		t.id = p.nextID
		p.nextID++
		p.tiles = append(p.tiles, t)
	}
	t.active = false
	p.free = append(p.free, t)
}

func (p *Pool) owns(t *Tile) bool {
	return t.id < len(p.tiles) && p.tiles[t.id] == t
}

// RandomizeType assigns a uniformly random type.
func (p *Pool) RandomizeType(t *Tile) {
	t.typ = p.rng.Intn(p.types)
}

// NextType advances the tile to the next type, wrapping around, and
// returns the new type.
func (p *Pool) NextType(t *Tile) int {
	t.typ = (t.typ + 1) % p.types
	if t.typ < 0 {
		t.typ += p.types
	}
	return t.typ
}

// ChangeType sets the tile type directly.
func (p *Pool) ChangeType(t *Tile, typ int) {
	t.typ = typ
}

// Upgrade turns the tile into a power-up of the given kind.
func (p *Pool) Upgrade(t *Tile, kind PowerupKind) {
	t.upgrade(kind)
}
