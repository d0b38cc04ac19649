package segment

import (
	"strings"
	"testing"
)

func TestSegment_Paragraphs(t *testing.T) {
	raw := "The map is not the territory.\n\nAll models are wrong, some are useful."

	highlights := Segment(raw)
	if len(highlights) != 2 {
		t.Fatalf("expected 2 highlights, got %d", len(highlights))
	}
	if highlights[0].ID != "H1" || highlights[1].ID != "H2" {
		t.Errorf("expected IDs H1, H2, got %s, %s", highlights[0].ID, highlights[1].ID)
	}
	if highlights[0].Text != "The map is not the territory." {
		t.Errorf("unexpected first highlight: %q", highlights[0].Text)
	}
}

func TestSegment_BulletBlock(t *testing.T) {
	raw := "- First principle thinking\n- Second order effects\n* Inversion as a tool"

	highlights := Segment(raw)
	if len(highlights) != 3 {
		t.Fatalf("expected 3 highlights, got %d", len(highlights))
	}
	for i, want := range []string{"First principle thinking", "Second order effects", "Inversion as a tool"} {
		if highlights[i].Text != want {
			t.Errorf("highlight %d: got %q, want %q", i, highlights[i].Text, want)
		}
	}
}

func TestSegment_NumberedList(t *testing.T) {
	raw := "1. Write every day\n2) Read widely\n3. Revise ruthlessly"

	highlights := Segment(raw)
	if len(highlights) != 3 {
		t.Fatalf("expected 3 highlights, got %d", len(highlights))
	}
	if highlights[1].Text != "Read widely" {
		t.Errorf("marker not stripped: %q", highlights[1].Text)
	}
}

func TestSegment_MixedBlockStaysParagraph(t *testing.T) {
	// A block where only some lines carry markers is a single paragraph.
	raw := "Key takeaways from chapter 3:\n- habit loops\n- keystone habits"

	highlights := Segment(raw)
	if len(highlights) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(highlights))
	}
	if !strings.Contains(highlights[0].Text, "habit loops") {
		t.Errorf("lines not joined: %q", highlights[0].Text)
	}
}

func TestSegment_SingleBulletLineIsParagraph(t *testing.T) {
	raw := "- a lone bullet line"

	highlights := Segment(raw)
	if len(highlights) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(highlights))
	}
	// Marker survives because one line is not a bullet block
	if highlights[0].Text != "- a lone bullet line" {
		t.Errorf("got %q", highlights[0].Text)
	}
}

func TestSegment_DiscardsShortUnits(t *testing.T) {
	raw := "ok\n\nA real highlight worth keeping.\n\n--"

	highlights := Segment(raw)
	if len(highlights) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(highlights))
	}
	if highlights[0].ID != "H1" {
		t.Errorf("IDs must stay contiguous after discards, got %s", highlights[0].ID)
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n\n", "\t \n"} {
		if got := Segment(raw); len(got) != 0 {
			t.Errorf("Segment(%q) = %d highlights, want 0", raw, len(got))
		}
	}
}

func TestSegment_MultilineParagraphJoined(t *testing.T) {
	raw := "A sentence that wraps\nacross two lines.\n\nNext paragraph."

	highlights := Segment(raw)
	if len(highlights) != 2 {
		t.Fatalf("expected 2 highlights, got %d", len(highlights))
	}
	if highlights[0].Text != "A sentence that wraps across two lines." {
		t.Errorf("lines not joined with spaces: %q", highlights[0].Text)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	raw := "First thought.\n\n- alpha point\n- beta point\n\nLast thought."

	a := Segment(raw)
	b := Segment(raw)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("highlight %d differs between runs", i)
		}
	}
}

func TestFormatForPrompt(t *testing.T) {
	highlights := Segment("First idea here.\n\nSecond idea here.")

	got := FormatForPrompt(highlights)
	want := "[H1] First idea here.\n\n[H2] Second idea here."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
