package crypto

import (
	"strings"
	"testing"
)

func TestEncryptDecrypt(t *testing.T) {
	keysMap := map[string][]byte{
		"v1": make([]byte, 32),
	}
	plain := []byte("12345678")
	cipher, nonce, err := Encrypt(plain, "v1", keysMap)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(cipher) == 0 || len(nonce) == 0 {
		t.Fatal("cipher y nonce no pueden ser vacíos")
	}
	dec, err := Decrypt(cipher, nonce, "v1", keysMap)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(dec) != string(plain) {
		t.Fatalf("descifrado %q != plano %q", dec, plain)
	}
}

func TestDecryptWrongVersion(t *testing.T) {
	keysMap := map[string][]byte{
		"v1": make([]byte, 32),
	}
	cipher, nonce, err := Encrypt([]byte("dato"), "v1", keysMap)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(cipher, nonce, "v2", keysMap); err == nil {
		t.Fatal("una versión de clave desconocida debe fallar")
	}
	otherKey := map[string][]byte{"v1": append(make([]byte, 31), 1)}
	if _, err := Decrypt(cipher, nonce, "v1", otherKey); err == nil {
		t.Fatal("otra clave debe fallar la autenticación GCM")
	}
}

func TestParseKeysEnv(t *testing.T) {
	// 32 bytes en base64 son 43 caracteres sin padding
	key := strings.Repeat("A", 43)
	m, err := ParseKeysEnv("v1:" + key)
	if err != nil {
		t.Fatalf("ParseKeysEnv: %v", err)
	}
	if len(m["v1"]) != 32 {
		t.Fatalf("largo de clave: %d", len(m["v1"]))
	}
	m2, err := ParseKeysEnv("v1:" + key + ", v2:" + strings.Repeat("B", 43))
	if err != nil {
		t.Fatalf("ParseKeysEnv múltiple: %v", err)
	}
	if len(m2) != 2 || len(m2["v2"]) != 32 {
		t.Fatalf("claves múltiples: %v", m2)
	}
	if _, err := ParseKeysEnv("v1:corta"); err == nil {
		t.Fatal("una clave que no decodifica a 32 bytes debe rechazarse")
	}
}

func TestSHA256Hex(t *testing.T) {
	if got := SHA256Hex([]byte("abc")); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("SHA256Hex: %s", got)
	}
}
