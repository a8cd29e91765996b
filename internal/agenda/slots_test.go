package agenda

import "testing"

func TestSlotsCatalog(t *testing.T) {
	s := Slots()
	if len(s) != (CloseHour-OpenHour)*60/SlotMinutes {
		t.Fatalf("len(slots)=%d", len(s))
	}
	if s[0] != "09:00" {
		t.Fatalf("primer slot %q", s[0])
	}
	if s[len(s)-1] != "19:45" {
		t.Fatalf("último slot %q", s[len(s)-1])
	}
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			t.Fatalf("catálogo desordenado en %d: %q, %q", i, s[i-1], s[i])
		}
	}
}

func TestValidSlot(t *testing.T) {
	cases := []struct {
		hora string
		want bool
	}{
		{"09:00", true},
		{"14:45", true},
		{"19:45", true},
		{"20:00", false},
		{"08:45", false},
		{"10:07", false},
		{"9:00", false}, // sin cero a la izquierda no es el formato del catálogo
		{"", false},
	}
	for _, c := range cases {
		if got := ValidSlot(c.hora); got != c.want {
			t.Fatalf("ValidSlot(%q)=%v, quería %v", c.hora, got, c.want)
		}
	}
}
