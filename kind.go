package reversaar

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three content categories the service stores.
//
// The set is closed. Every per-kind behavior (codec, endpoint, request
// headers, validation, rendering) is selected by an exhaustive switch on
// Kind or on the Content type, so adding a kind is a compile-visible change
// touching each of those switches.
type Kind uint8

const (
	KindText Kind = iota
	KindByteArray
	KindAudio
)

// Kinds returns all kinds in listing order.
func Kinds() []Kind {
	return []Kind{KindText, KindByteArray, KindAudio}
}

// String returns the wire name of the kind, used in endpoint paths and as
// the count key in session records.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindByteArray:
		return "array"
	case KindAudio:
		return "audio"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Title returns a human readable label.
func (k Kind) Title() string {
	switch k {
	case KindText:
		return "Text"
	case KindByteArray:
		return "Byte array"
	case KindAudio:
		return "Audio"
	}
	return k.String()
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k <= KindAudio
}

// ParseKind maps a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return KindText, nil
	case "array", "bytearray", "bytes":
		return KindByteArray, nil
	case "audio":
		return KindAudio, nil
	}
	return 0, fmt.Errorf("reversaar: unknown kind %q", s)
}

// newPath is the submission endpoint for the kind.
func (k Kind) newPath() string {
	return "/api/" + k.mustName() + "/new"
}

// itemPath is the retrieval endpoint for one stored item.
func (k Kind) itemPath(index int) string {
	return fmt.Sprintf("/api/%s/%d", k.mustName(), index)
}

func (k Kind) mustName() string {
	if !k.Valid() {
		panic(fmt.Sprintf("reversaar: invalid kind %d", uint8(k)))
	}
	return k.String()
}
