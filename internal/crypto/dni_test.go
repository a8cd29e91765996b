package crypto

import "testing"

func TestNormalizeDNI(t *testing.T) {
	cases := []struct{ in, want string }{
		{"12.345.678", "12345678"},
		{"12 345 678", "12345678"},
		{"12345678", "12345678"},
		{"DNI 1.234.567", "1234567"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDNI(c.in); got != c.want {
			t.Fatalf("NormalizeDNI(%q)=%q, quería %q", c.in, got, c.want)
		}
	}
}

func TestValidDNI(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1234567", true},
		{"12345678", true},
		{"123456", false},
		{"123456789", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidDNI(c.in); got != c.want {
			t.Fatalf("ValidDNI(%q)=%v", c.in, got)
		}
	}
}

func TestDNIHashStable(t *testing.T) {
	a := DNIHash("12345678")
	b := DNIHash(NormalizeDNI("12.345.678"))
	if a != b {
		t.Fatalf("el hash debe ser estable tras normalizar: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("hex de sha-256 son 64 caracteres: %d", len(a))
	}
	if DNIHash("12345679") == a {
		t.Fatal("documentos distintos no pueden colisionar en el test")
	}
}
