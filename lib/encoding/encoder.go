// Package encoding seals small client state records for storage on disk.
//
// Records are packed with msgpack and sealed with AES-256-GCM, so a saved
// session credential is neither readable nor forgeable without the key.
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidFormat = errors.New("encoding: invalid sealed format")
	ErrDecryptFailed = errors.New("encoding: decryption failed")
)

// KeySize is the length of keys produced by NewKey.
const KeySize = 32

// Encoder seals and opens records with one key.
type Encoder struct {
	gcm cipher.AEAD
}

// NewKey returns a fresh random key.
func NewKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// NewEncoder creates an encoder. The cipher key is derived from key with
// HKDF-SHA256, so key may have any length.
func NewEncoder(key []byte) (*Encoder, error) {
	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, []byte("reversaar-state")), derived); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encoder{gcm: gcm}, nil
}

// Seal packs v and returns the URL-safe base64 of nonce||ciphertext.
func (e *Encoder) Seal(v any) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := e.gcm.Seal(nonce, nonce, packed, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// Open reverses Seal into v.
func (e *Encoder) Open(sealed string, v any) error {
	ciphertext, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(sealed))
	if err != nil {
		return ErrInvalidFormat
	}

	if len(ciphertext) < e.gcm.NonceSize() {
		return ErrInvalidFormat
	}

	nonce := ciphertext[:e.gcm.NonceSize()]
	ciphertext = ciphertext[e.gcm.NonceSize():]

	packed, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecryptFailed
	}

	return msgpack.Unmarshal(packed, v)
}
