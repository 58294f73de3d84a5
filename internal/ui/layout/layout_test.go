package layout

import (
	"strings"
	"testing"
)

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("expected sizes below the minimum to be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected the minimum size to fit")
	}
}

func TestRenderHeader(t *testing.T) {
	wide := RenderHeader("Cube Roots", 3, 12, 120)
	for _, want := range []string{"Blitz", "Cube Roots", "★ 3 days", "12 played"} {
		if !strings.Contains(wide, want) {
			t.Errorf("wide header missing %q", want)
		}
	}

	narrow := RenderHeader("Cube Roots", 1, 1, 70)
	if strings.Contains(narrow, "Cube Roots") {
		t.Error("expected the title dropped on a narrow terminal")
	}
	if !strings.Contains(narrow, "★ 1 day") {
		t.Error("expected the streak on a narrow terminal")
	}
}

func TestRenderFooterDropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "Esc", Description: "Quit"},
		{Key: "Ctrl+C", Description: "Exit immediately and lose this round"},
	}
	footer := RenderFooter(hints, 40)
	if !strings.Contains(footer, "Answer") {
		t.Error("expected the first hint")
	}
	if strings.Contains(footer, "lose this round") {
		t.Error("expected the overflowing hint dropped")
	}
}
