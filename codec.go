package reversaar

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// Encode converts content into its wire payload.
//
// Text and Audio are sent as-is. ByteArray elements are mapped to single
// bytes and base64 encoded; any element outside [0,255] fails with
// ErrByteRange before anything is sent.
func Encode(c Content) ([]byte, error) {
	switch v := c.(type) {
	case Text:
		return []byte(v), nil
	case ByteArray:
		s, err := EncodeByteArray(v)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case Audio:
		return []byte(v), nil
	}
	panic(fmt.Sprintf("reversaar: unhandled content type %T", c))
}

// Decode converts a retrieval payload into the kind's native value.
//
// Audio has no decode step; the bytes are passed through for the
// presentation layer to play or store.
func Decode(k Kind, payload []byte) (Content, error) {
	switch k {
	case KindText:
		return Text(payload), nil
	case KindByteArray:
		return DecodeByteArray(string(payload))
	case KindAudio:
		return Audio(payload), nil
	}
	panic(fmt.Sprintf("reversaar: invalid kind %d", uint8(k)))
}

// EncodeByteArray maps each element to its byte and returns standard base64.
func EncodeByteArray(b ByteArray) (string, error) {
	for i, x := range b {
		if x < 0 || x > 255 {
			return "", fmt.Errorf("%w: element %d is %d", ErrByteRange, i, x)
		}
	}
	return base64.StdEncoding.EncodeToString(b.Bytes()), nil
}

// DecodeByteArray reverses EncodeByteArray. ASCII whitespace in the payload
// is ignored.
func DecodeByteArray(payload string) (ByteArray, error) {
	raw, err := base64.StdEncoding.DecodeString(stripSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	out := make(ByteArray, len(raw))
	for i, x := range raw {
		out[i] = int(x)
	}
	return out, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)
}

// ParseByteArray parses user input of the form "[72, 73]". The input must be
// a JSON array of integral numbers in [0,255].
func ParseByteArray(input string) (ByteArray, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()

	var elems []any
	if err := dec.Decode(&elems); err != nil {
		return nil, fmt.Errorf("parse byte array: %w", err)
	}
	if elems == nil {
		return nil, errors.New("parse byte array: not an array")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("parse byte array: trailing data")
	}

	out := make(ByteArray, len(elems))
	for i, e := range elems {
		n, ok := e.(json.Number)
		if !ok {
			return nil, fmt.Errorf("parse byte array: element %d is not a number", i)
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return nil, fmt.Errorf("parse byte array: element %d is not an integer", i)
		}
		if f < 0 || f > 255 {
			return nil, fmt.Errorf("%w: element %d is %v", ErrByteRange, i, n)
		}
		out[i] = int(f)
	}
	return out, nil
}

// FormatByteArray renders b the way users enter it.
func FormatByteArray(b ByteArray) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, x := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d", x)
	}
	buf.WriteByte(']')
	return buf.String()
}

// submitHeaders returns the request headers the service expects per kind.
func submitHeaders(k Kind) map[string]string {
	switch k {
	case KindText:
		return map[string]string{"Content-Type": "text/plain;charset=UTF-8"}
	case KindByteArray:
		return map[string]string{
			"Content-Type":              "application/octet-stream",
			"Content-Transfer-Encoding": "base64",
		}
	case KindAudio:
		return map[string]string{"Content-Type": "application/octet-stream"}
	}
	panic(fmt.Sprintf("reversaar: invalid kind %d", uint8(k)))
}
