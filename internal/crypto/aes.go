package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Encrypt seals plaintext with AES-256-GCM under the key for keyVersion.
func Encrypt(plaintext []byte, keyVersion string, keysMap map[string][]byte) (ciphertext, nonce []byte, err error) {
	gcm, err := gcmFor(keyVersion, keysMap)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

func Decrypt(ciphertext, nonce []byte, keyVersion string, keysMap map[string][]byte) ([]byte, error) {
	gcm, err := gcmFor(keyVersion, keysMap)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func gcmFor(keyVersion string, keysMap map[string][]byte) (cipher.AEAD, error) {
	key, ok := keysMap[keyVersion]
	if !ok {
		return nil, errors.New("key version not found")
	}
	if len(key) != 32 {
		return nil, errors.New("key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// ParseKeysEnv parses "v1:<base64>,v2:<base64>" into version -> 32-byte key.
// Accepts keys with or without base64 padding.
func ParseKeysEnv(env string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	for _, part := range strings.Split(env, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, ":")
		if idx <= 0 {
			continue
		}
		ver := strings.TrimSpace(part[:idx])
		b64 := strings.TrimSpace(part[idx+1:])
		// A 32-byte key is 43 base64 chars; a trailing "=" would decode to 33
		// bytes, so strip it before deciding which decoder applies.
		if len(b64) == 44 && strings.HasSuffix(b64, "=") {
			b64 = b64[:43]
		}
		var key []byte
		var err error
		if len(b64)%4 == 3 {
			key, err = base64.RawStdEncoding.DecodeString(b64)
		} else {
			switch len(b64) % 4 {
			case 2:
				b64 += "=="
			case 3:
				b64 += "="
			}
			key, err = base64.StdEncoding.DecodeString(b64)
		}
		if err != nil {
			return nil, err
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("key must be 32 bytes for AES-256 (got %d)", len(key))
		}
		out[ver] = key
	}
	return out, nil
}
