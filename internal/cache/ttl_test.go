package cache

import (
	"testing"
	"time"
)

func TestGetSetDelete(t *testing.T) {
	c := New(time.Minute)
	if c.Get("x") != nil {
		t.Fatal("clave inexistente debe dar nil")
	}
	c.Set("x", []byte("1"))
	if string(c.Get("x")) != "1" {
		t.Fatalf("Get tras Set: %q", c.Get("x"))
	}
	c.Delete("x")
	if c.Get("x") != nil {
		t.Fatal("Get tras Delete debe dar nil")
	}
}

func TestExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("x", []byte("1"))
	time.Sleep(25 * time.Millisecond)
	if c.Get("x") != nil {
		t.Fatal("la entrada vencida no debe devolverse")
	}
}

func TestDeletePrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set("agenda:dia:2026-03-03", []byte("a"))
	c.Set("agenda:mes:2026-03", []byte("b"))
	c.Set("otro:clave", []byte("c"))
	c.DeletePrefix("agenda:")
	if c.Get("agenda:dia:2026-03-03") != nil || c.Get("agenda:mes:2026-03") != nil {
		t.Fatal("las claves con el prefijo deben borrarse")
	}
	if c.Get("otro:clave") == nil {
		t.Fatal("las demás claves deben sobrevivir")
	}
}
