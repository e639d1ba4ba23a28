package core

// upgradeFor returns the power-up an unprompted match of type t creates.
func upgradeFor(t MatchType) PowerupKind {
	switch t {
	case MatchCross:
		return PowerupRowCol
	case Match5:
		return PowerupGem
	case Match4:
		return PowerupBomb
	default:
		return PowerupNone
	}
}

// resolve reports m to the sink and removes its tiles. Must be called with
// b.mu held.
func (b *Board) resolve(m *Match) {
	b.resolveKeeping(m, nil)
}

type detonation struct {
	kind PowerupKind
	pos  Coord
}

// resolveKeeping resolves m without removing keep, the survivor of an
// enclosing resolution.
//
// An unprompted match larger than three keeps its nominee (or a random
// member) on the board as a power-up. Every removed bomb or row/column
// tile then detonates. A survivor that already carries a power-up
// detonates before it takes its new kind.
func (b *Board) resolveKeeping(m *Match, keep *Tile) {
	if m == nil || m.Len() == 0 {
		return
	}
	b.stats.Matches++

	var survivor *Tile
	upgrade := PowerupNone
	if !m.Prompted() {
		upgrade = upgradeFor(m.Type())
		if upgrade != PowerupNone {
			survivor = m.nominee
			if survivor == nil || !m.Contains(survivor) {
				survivor = m.tiles[b.rng.Intn(len(m.tiles))]
				m.nominee = survivor
			}
		}
	}

	b.sink.OnMatchResolved(m)

	var pending []detonation
	for _, t := range m.tiles {
		if t == survivor || t == keep || !b.onGrid(t) {
			continue
		}
		_, _ = b.grid.Remove(t.pos)
		if t.kind == PowerupBomb || t.kind == PowerupRowCol {
			pending = append(pending, detonation{kind: t.kind, pos: t.pos})
		}
		b.pool.Release(t)
	}

	protect := keep
	if survivor != nil {
		protect = survivor
	}
	for _, d := range pending {
		b.detonate(d, protect)
	}

	if survivor != nil {
		if survivor.kind == PowerupBomb || survivor.kind == PowerupRowCol {
			b.detonate(detonation{kind: survivor.kind, pos: survivor.pos}, survivor)
		}
		b.pool.Upgrade(survivor, upgrade)
		b.countUpgrade(upgrade)
		b.logger.Debug("power-up created", "kind", upgrade, "at", survivor.pos)
	}
}

// detonate resolves the area effect of a removed power-up at d.pos.
// Bombs sweep the 3x3 block around the cell, skipping gems. Row/column
// tiles sweep the full row and column. Gems caught in a sweep are removed
// without effect.
func (b *Board) detonate(d detonation, keep *Tile) {
	var m *Match
	switch d.kind {
	case PowerupBomb:
		m = newEffectMatch(PowerupBomb, Match4)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				t := b.grid.peek(d.pos.Add(C(dx, dy)))
				if b.sweepable(t, keep) && !t.IsGem() {
					m.Add(t)
				}
			}
		}
	case PowerupRowCol:
		m = newEffectMatch(PowerupRowCol, MatchCross)
		w, h := b.grid.Dimensions()
		for x := 0; x < w; x++ {
			if t := b.grid.peek(C(x, d.pos.Y)); b.sweepable(t, keep) {
				m.Add(t)
			}
		}
		for y := 0; y < h; y++ {
			if t := b.grid.peek(C(d.pos.X, y)); b.sweepable(t, keep) {
				m.Add(t)
			}
		}
	default:
		return
	}

	b.stats.Detonations++
	if m.Len() == 0 {
		return
	}
	m.round = b.round
	b.resolveKeeping(m, keep)
}

func (b *Board) sweepable(t, keep *Tile) bool {
	return t != nil && t != keep && t.Idle()
}

func (b *Board) countUpgrade(k PowerupKind) {
	switch k {
	case PowerupBomb:
		b.stats.Bombs++
	case PowerupRowCol:
		b.stats.RowCols++
	case PowerupGem:
		b.stats.Gems++
	}
}

// gemMatch builds the match for a swap involving a gem. Two gems match
// every tile on the board. One gem matches every tile of the other tile's
// type, plus the gem itself.
func (b *Board) gemMatch(a, c *Tile) *Match {
	m := newEffectMatch(PowerupGem, Match5)
	everything := a.IsGem() && c.IsGem()
	gem, other := a, c
	if !a.IsGem() {
		gem, other = c, a
	}

	w, h := b.grid.Dimensions()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := b.grid.peek(C(x, y))
			if t == nil || !t.Idle() {
				continue
			}
			if everything || (t.typ == other.typ && !t.IsGem()) {
				m.Add(t)
			}
		}
	}
	m.Add(gem)
	return m
}
