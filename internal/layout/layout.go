// Package layout holds the window arrangement policies a workspace can
// delegate to. A Layout only computes geometry; the workspace applies it.
package layout

import "fmt"

type Rect struct {
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

// Layout computes frame geometry for n stacked clients inside region.
// A nil result means the layout does not impose geometry (floating).
type Layout interface {
	Arrange(region Rect, n int) []Rect
}

// New resolves a layout by its configuration name.
func New(name string) (Layout, error) {
	switch name {
	case "", "floating":
		return Floating{}, nil
	case "grid":
		return Grid{}, nil
	case "monocle":
		return Monocle{}, nil
	default:
		return nil, fmt.Errorf("layout: unknown layout %q", name)
	}
}

// Floating leaves every client where the user put it.
type Floating struct{}

func (Floating) Arrange(Rect, int) []Rect { return nil }

// Monocle gives every client the full region; the stack order decides what is
// visible.
type Monocle struct{}

func (Monocle) Arrange(region Rect, n int) []Rect {
	rects := make([]Rect, n)
	for i := range rects {
		rects[i] = region
	}
	return rects
}

// Grid tiles clients into the smallest square-ish grid that fits them.
type Grid struct{}

func (Grid) Arrange(region Rect, n int) []Rect {
	if n == 0 {
		return nil
	}

	cols, rows := 0, 0
	for cols*rows < n {
		cols++
		if cols*rows >= n {
			break
		}
		rows++
	}

	cw := region.Width / uint16(cols)
	ch := region.Height / uint16(rows)

	rects := make([]Rect, n)
	for i := range rects {
		col := i % cols
		row := i / cols
		rects[i] = Rect{
			X:      region.X + int16(cw)*int16(col),
			Y:      region.Y + int16(ch)*int16(row),
			Width:  cw,
			Height: ch,
		}
	}
	return rects
}

// Inset shrinks r by gap pixels on every side, guarding against collapse.
func Inset(r Rect, gap uint16) Rect {
	if r.Width <= 2*gap || r.Height <= 2*gap {
		return r
	}
	return Rect{
		X:      r.X + int16(gap),
		Y:      r.Y + int16(gap),
		Width:  r.Width - 2*gap,
		Height: r.Height - 2*gap,
	}
}
