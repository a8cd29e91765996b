package main

import "testing"

func TestNormalizarTelefono(t *testing.T) {
	cases := []struct{ in, want string }{
		{"11 5555-1234", "1155551234"},
		{"+54 (341) 455.1234", "543414551234"},
		{"1155551234", "1155551234"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizarTelefono(c.in); got != c.want {
			t.Fatalf("normalizarTelefono(%q)=%q, quería %q", c.in, got, c.want)
		}
	}
}

func TestNormalizarFecha(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1990-05-17", "1990-05-17"},
		{"17/05/1990", "1990-05-17"},
		{"7/5/1990", "1990-05-07"},
		{"17-05-1990", "1990-05-17"},
		{"ayer", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizarFecha(c.in); got != c.want {
			t.Fatalf("normalizarFecha(%q)=%q, quería %q", c.in, got, c.want)
		}
	}
}
