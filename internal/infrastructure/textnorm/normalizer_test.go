package textnorm

import "testing"

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := New()
	got := n.Normalize([]string{"Blood  is a\tconnective   tissue.\nIt circulates."})
	want := "Blood is a connective tissue. It circulates."
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	n := New()
	if got := n.Normalize(nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := n.Normalize([]string{"", "   "}); got != "" {
		t.Fatalf("expected empty output for blank pages, got %q", got)
	}
}

func TestNormalizeStripsControlCharacters(t *testing.T) {
	n := New()
	got := n.Normalize([]string{"Plasma\x00 carries\x07 nutrients."})
	want := "Plasma carries nutrients."
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeRemovesRecurringHeadersAndPageNumbers(t *testing.T) {
	n := New()
	pages := []string{
		"Essentials of Hematology\nBlood is a fluid tissue.\n1",
		"Essentials of Hematology\nPlasma makes up 55 percent of blood volume.\n2",
		"Essentials of Hematology\nRed cells transport oxygen.\n3",
		"Essentials of Hematology\nWhite cells defend against infection.\n4",
	}
	got := n.Normalize(pages)
	want := "Blood is a fluid tissue. Plasma makes up 55 percent of blood volume. " +
		"Red cells transport oxygen. White cells defend against infection."
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeKeepsHeadersBelowRepetitionThreshold(t *testing.T) {
	n := New()
	pages := []string{
		"Introduction\nBlood is a fluid tissue.",
		"Plasma makes up most of blood volume.",
	}
	got := n.Normalize(pages)
	want := "Introduction Blood is a fluid tissue. Plasma makes up most of blood volume."
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := New()
	pages := []string{
		"Chapter 2   Blood\nBlood is a fluid\tconnective tissue.\n17",
		"Chapter 2   Blood\nIt has cellular and plasma fractions.\n18",
		"Chapter 2   Blood\nHematocrit measures the cellular fraction.\n19",
	}
	once := n.Normalize(pages)
	twice := n.Normalize([]string{once})
	if once != twice {
		t.Fatalf("normalize not idempotent:\n once=%q\ntwice=%q", once, twice)
	}
}
