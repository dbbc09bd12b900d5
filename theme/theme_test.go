package theme

import "testing"

func TestColors_KnownTheme(t *testing.T) {
	p := Colors(Green)
	if p.Name != "Fresh Green" {
		t.Errorf("expected Fresh Green, got %q", p.Name)
	}
	if p.Primary != "#059669" {
		t.Errorf("expected green primary #059669, got %q", p.Primary)
	}
}

func TestColors_FallsBackToPurple(t *testing.T) {
	purple := Colors(Purple)

	for _, c := range []Color{"", "magenta", "PURPLE"} {
		if got := Colors(c); got != purple {
			t.Errorf("Colors(%q) should fall back to purple, got %q", c, got.Name)
		}
	}
}

func TestValid(t *testing.T) {
	for _, c := range []Color{Purple, Blue, Green, Orange, Pink} {
		if !Valid(c) {
			t.Errorf("%q should be a valid theme", c)
		}
	}
	if Valid("teal") {
		t.Error("teal is not a built-in theme")
	}
}
