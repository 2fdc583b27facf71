package reversaar

import "github.com/pthm/reversaar/lib/wav"

// Content is the native in-memory value of one stored item.
//
// It is sealed: Text, ByteArray and Audio are the only implementations.
type Content interface {
	Kind() Kind
	content()
}

// Text is the native value of KindText items.
type Text string

// ByteArray is the native value of KindByteArray items. Elements must be in
// [0,255] to be encodable.
type ByteArray []int

// Audio is the raw binary content of a KindAudio item, typically a WAV file.
type Audio []byte

func (Text) Kind() Kind      { return KindText }
func (ByteArray) Kind() Kind { return KindByteArray }
func (Audio) Kind() Kind     { return KindAudio }

func (Text) content()      {}
func (ByteArray) content() {}
func (Audio) content()     {}

// Bytes converts b to a byte slice. Callers must have validated the range.
func (b ByteArray) Bytes() []byte {
	out := make([]byte, len(b))
	for i, x := range b {
		out[i] = byte(x)
	}
	return out
}

// Info inspects the WAV header of the audio payload.
func (a Audio) Info() (wav.Info, error) {
	return wav.Inspect(a)
}

// AudioFile is a selected audio resource staged in a submission form.
type AudioFile struct {
	Name string
	Data []byte
}

// Info inspects the WAV header of the file.
func (f *AudioFile) Info() (wav.Info, error) {
	return wav.Inspect(f.Data)
}
