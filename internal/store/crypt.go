package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const masterKeyEnv = "POTHI_MASTER_KEY_HEX"

// ReadMasterKey loads the 32-byte master key from POTHI_MASTER_KEY_HEX or,
// failing that, a master.key file in the working directory.
func ReadMasterKey() ([]byte, error) {
	h := os.Getenv(masterKeyEnv)
	if h == "" {
		data, err := os.ReadFile("master.key")
		if err != nil {
			return nil, fmt.Errorf("%s not set and master.key file not found", masterKeyEnv)
		}
		h = string(data)
	}
	h = strings.TrimSpace(h)
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("master key hex decode error: %w", err)
	}
	if len(b) != 32 {
		return nil, errors.New("master key length must be 32 bytes (hex 64 chars)")
	}
	return b, nil
}

// DeriveRecordKey derives the per-namespace encryption key from the master
// key using HKDF-SHA256, so the profiles and documents records never share
// a key with each other or with anything else derived from the master.
func DeriveRecordKey(master []byte, namespace string) ([]byte, error) {
	h := hkdf.New(sha256.New, master, nil, []byte("record-"+namespace))
	out := make([]byte, 32)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

// EncryptAESGCM seals plaintext with a random nonce prepended to the blob.
func EncryptAESGCM(key, plaintext []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, errors.New("record key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ct := gcm.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ct...), nil
}

// DecryptAESGCM opens a blob produced by EncryptAESGCM.
func DecryptAESGCM(key, blob []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, errors.New("record key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	ns := gcm.NonceSize()
	if len(blob) < ns {
		return nil, errors.New("ciphertext too short")
	}
	return gcm.Open(nil, blob[:ns], blob[ns:], nil)
}
