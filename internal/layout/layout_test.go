package layout

import "testing"

func TestFloating_ImposesNothing(t *testing.T) {
	if got := (Floating{}).Arrange(Rect{Width: 1920, Height: 1080}, 4); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMonocle_FullRegion(t *testing.T) {
	region := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	rects := (Monocle{}).Arrange(region, 3)
	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}
	for i, r := range rects {
		if r != region {
			t.Fatalf("rect %d = %v, want %v", i, r, region)
		}
	}
}

func TestGrid_FourClientsTwoByTwo(t *testing.T) {
	rects := (Grid{}).Arrange(Rect{Width: 800, Height: 600}, 4)
	if len(rects) != 4 {
		t.Fatalf("expected 4 rects, got %d", len(rects))
	}

	want := []Rect{
		{X: 0, Y: 0, Width: 400, Height: 300},
		{X: 400, Y: 0, Width: 400, Height: 300},
		{X: 0, Y: 300, Width: 400, Height: 300},
		{X: 400, Y: 300, Width: 400, Height: 300},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Fatalf("rect %d = %v, want %v", i, rects[i], want[i])
		}
	}
}

func TestGrid_ThreeClientsDoNotOverflow(t *testing.T) {
	region := Rect{Width: 900, Height: 600}
	rects := (Grid{}).Arrange(region, 3)
	if len(rects) != 3 {
		t.Fatalf("expected 3 rects, got %d", len(rects))
	}
	for i, r := range rects {
		if r.X < 0 || int(r.X)+int(r.Width) > int(region.Width) {
			t.Fatalf("rect %d horizontally out of region: %v", i, r)
		}
		if r.Y < 0 || int(r.Y)+int(r.Height) > int(region.Height) {
			t.Fatalf("rect %d vertically out of region: %v", i, r)
		}
	}
}

func TestGrid_Empty(t *testing.T) {
	if got := (Grid{}).Arrange(Rect{Width: 100, Height: 100}, 0); got != nil {
		t.Fatalf("expected nil for empty stack, got %v", got)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "floating", "grid", "monocle"} {
		if _, err := New(name); err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
	}
	if _, err := New("spiral"); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func TestInset(t *testing.T) {
	r := Inset(Rect{X: 10, Y: 10, Width: 100, Height: 80}, 5)
	want := Rect{X: 15, Y: 15, Width: 90, Height: 70}
	if r != want {
		t.Fatalf("got %v, want %v", r, want)
	}

	// Too small to inset; returned unchanged.
	small := Rect{Width: 8, Height: 8}
	if got := Inset(small, 5); got != small {
		t.Fatalf("got %v, want %v", got, small)
	}
}
