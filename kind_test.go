package reversaar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "array", KindByteArray.String())
	assert.Equal(t, "audio", KindAudio.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{
		"text":      KindText,
		"array":     KindByteArray,
		"ByteArray": KindByteArray,
		" audio ":   KindAudio,
	} {
		got, err := ParseKind(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseKind("video")
	assert.Error(t, err)
}

func TestKind_Paths(t *testing.T) {
	assert.Equal(t, "/api/array/new", KindByteArray.newPath())
	assert.Equal(t, "/api/audio/3", KindAudio.itemPath(3))
	assert.Panics(t, func() { Kind(5).newPath() })
}

func TestContent_Kind(t *testing.T) {
	assert.Equal(t, KindText, Text("").Kind())
	assert.Equal(t, KindByteArray, ByteArray(nil).Kind())
	assert.Equal(t, KindAudio, Audio(nil).Kind())
}
