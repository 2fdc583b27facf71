package encoding

import (
	"errors"
	"strings"
	"testing"
)

type testState struct {
	Server     string `msgpack:"s"`
	User       string `msgpack:"u"`
	Credential string `msgpack:"c"`
}

func TestNewEncoder(t *testing.T) {
	// Should work with any key length (derives 32-byte key)
	_, err := NewEncoder([]byte("short"))
	if err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}

	key, err := NewKey()
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	if len(key) != KeySize {
		t.Fatalf("NewKey returned %d bytes", len(key))
	}
	if _, err := NewEncoder(key); err != nil {
		t.Fatalf("NewEncoder with random key failed: %v", err)
	}
}

func TestSealRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testState{
		Server:     "http://localhost:7331",
		User:       "alice",
		Credential: "c2Vzc2lvbg",
	}

	sealed, err := enc.Seal(original)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if strings.Contains(sealed, "alice") {
		t.Error("sealed record should not contain plaintext")
	}

	var decoded testState
	if err := enc.Open(sealed, &decoded); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	a, _ := enc.Seal(testState{User: "alice"})
	b, _ := enc.Seal(testState{User: "alice"})
	if a == b {
		t.Error("sealing the same record twice should differ")
	}
}

func TestOpenWrongKey(t *testing.T) {
	enc1, _ := NewEncoder([]byte("key-one"))
	enc2, _ := NewEncoder([]byte("key-two"))

	sealed, err := enc1.Seal(testState{User: "alice"})
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	var decoded testState
	if err := enc2.Open(sealed, &decoded); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Open with wrong key: error = %v, want ErrDecryptFailed", err)
	}
}

func TestOpenInvalidInput(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not base64", "!!!"},
		{"too short", "YWJj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded testState
			if err := enc.Open(tt.input, &decoded); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Open(%q) error = %v, want ErrInvalidFormat", tt.input, err)
			}
		})
	}
}
