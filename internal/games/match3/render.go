package match3

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-match3/internal/core"
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

const (
	cellWidth    = 3 // Characters per board cell
	hudHeight    = 3 // Title and status lines above the board
	footerHeight = 2 // Notice and controls below the board
)

var tileGlyphs = []rune{'●', '▲', '■', '◆', '♥', '♣', '♠', '✦', '☀', '☾'}

// boardSize returns the framed board size in screen cells.
func boardSize(w, h int) (int, int) {
	return w*cellWidth + 2, h + 2
}

// boardGeom remembers where the board was last drawn so clicks can be
// mapped back to cells.
type boardGeom struct {
	x, y int // Screen position of cell (0, h-1)
	w, h int
	set  bool
}

// screenOf returns the screen position of the left edge of cell c.
func (b boardGeom) screenOf(x, y float64) (int, int) {
	sx := b.x + int(math.Round(x))*cellWidth
	sy := b.y + (b.h - 1) - int(math.Round(y))
	return sx, sy
}

// cellAt maps a screen position to a board cell.
func (b boardGeom) cellAt(sx, sy int) (m3.Coord, bool) {
	if !b.set || sx < b.x || sy < b.y {
		return m3.Coord{}, false
	}
	x := (sx - b.x) / cellWidth
	y := b.h - 1 - (sy - b.y)
	if x >= b.w || y < 0 {
		return m3.Coord{}, false
	}
	return m3.C(x, y), true
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.board == nil {
		g.drawOverlay(dst, dst.Width()/2, dst.Height()/2, "Board error", errText(g.err), "Press R to retry")
		return
	}

	w, h := g.board.Dimensions()
	bw, bh := boardSize(w, h)
	area := dst.Bounds().Centered(bw, bh+hudHeight+footerHeight)
	frame := core.NewRect(area.X, area.Y+hudHeight, bw, bh)
	g.geom = boardGeom{x: frame.X + 1, y: frame.Y + 1, w: w, h: h, set: true}

	g.renderHUD(dst, frame)
	dst.DrawBoxColored(frame, core.ColorGray)
	g.renderTiles(dst)
	g.renderMarkers(dst)
	g.renderFooter(dst, frame)
	g.renderOverlays(dst, frame)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderHUD(dst *core.Screen, frame core.Rect) {
	title := g.Title()
	dst.DrawTextColored(frame.X+(frame.W-len([]rune(title)))/2, frame.Y-3, title, core.ColorBrightWhite)

	score := fmt.Sprintf("Score: %d", g.keeper.Score())

	var info string
	if g.timer.Enabled() {
		left := g.timer.Remaining()
		info = fmt.Sprintf("Time %d:%02d", left/60, left%60)
	} else {
		info = fmt.Sprintf("Moves %d", g.moves)
	}
	color := core.ColorDefault
	if g.timer.Enabled() && g.timer.Remaining() <= 10 {
		color = core.ColorBrightRed
	}

	// Narrow boards get score and info on separate lines.
	if len(score)+1+len(info) > frame.W {
		dst.DrawText(frame.X, frame.Y-2, score)
		dst.DrawTextColored(frame.X, frame.Y-1, info, color)
		return
	}
	dst.DrawText(frame.X, frame.Y-1, score)
	dst.DrawTextColored(frame.Right()-len(info), frame.Y-1, info, color)
}

// glyph returns the rune and color for a tile.
func glyph(typ int, kind m3.PowerupKind) (rune, core.Color) {
	color := core.TileColor(typ)
	switch kind {
	case m3.PowerupGem:
		return '✶', core.ColorBrightWhite
	case m3.PowerupBomb:
		return '◎', color
	case m3.PowerupRowCol:
		return '✚', color
	}
	if typ < 0 {
		return '?', color
	}
	return tileGlyphs[typ%len(tileGlyphs)], color
}

// renderTiles draws resting tiles at their cells and moving tiles at their
// eased positions. Tiles above the top row are not drawn. Everything comes
// from one board snapshot, since the worker may be mutating tiles.
func (g *Game) renderTiles(dst *core.Screen) {
	snap := g.board.Snapshot()

	type moving struct {
		cell   m3.CellView
		fx, fy float64
	}
	var inFlight []moving

	for y := range snap.Height {
		for x := range snap.Width {
			cell := snap.At(m3.C(x, y))
			if cell.Empty {
				continue
			}
			if fx, fy, ok := g.anim.PositionOf(cell.ID); ok {
				inFlight = append(inFlight, moving{cell: cell, fx: fx, fy: fy})
				continue
			}
			g.drawTile(dst, cell, float64(x), float64(y))
		}
	}

	for _, m := range inFlight {
		if m.fy > float64(snap.Height)-0.5 {
			continue
		}
		g.drawTile(dst, m.cell, m.fx, m.fy)
	}
}

func (g *Game) drawTile(dst *core.Screen, cell m3.CellView, x, y float64) {
	r, color := glyph(cell.Type, cell.Kind)
	sx, sy := g.geom.screenOf(x, y)
	dst.SetColored(sx+1, sy, r, color)
}

// renderMarkers draws the cursor, the selection and the hint around cells.
func (g *Game) renderMarkers(dst *core.Screen) {
	if at, ok := g.hint.Visible(); ok && (g.tick/20)%2 == 0 {
		g.bracket(dst, at, '(', ')', core.ColorBrightCyan)
	}
	if sel, ok := g.cursor.Selected(); ok {
		g.bracket(dst, sel, '<', '>', core.ColorBrightMagenta)
	}
	if !g.gameOver {
		g.bracket(dst, g.cursor.Pos(), '[', ']', core.ColorBrightYellow)
	}
}

func (g *Game) bracket(dst *core.Screen, c m3.Coord, left, right rune, color core.Color) {
	sx, sy := g.geom.screenOf(float64(c.X), float64(c.Y))
	dst.SetColored(sx, sy, left, color)
	dst.SetColored(sx+cellWidth-1, sy, right, color)
}

func (g *Game) renderFooter(dst *core.Screen, frame core.Rect) {
	y := frame.Bottom()
	if g.noticeTicks > 0 && g.notice != "" {
		dst.DrawTextColored(frame.X+(frame.W-len([]rune(g.notice)))/2, y, g.notice, core.ColorYellow)
	}
	dst.DrawTextCenteredColored(y+1, g.Controls(), core.ColorGray)
}

func (g *Game) renderOverlays(dst *core.Screen, frame core.Rect) {
	cx, cy := frame.Center()

	switch {
	case g.paused:
		g.drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case g.gameOver:
		g.drawOverlay(dst, cx, cy, "TIME UP", fmt.Sprintf("Score: %d", g.keeper.Score()), "Press R to restart")
	case g.timer.Expired():
		g.drawOverlay(dst, cx, cy, "TIME UP")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	for i, line := range lines {
		dst.DrawText(centerX-len([]rune(line))/2, box.Y+1+i, line)
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
