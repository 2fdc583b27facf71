// Package wav reads the RIFF/WAVE header of audio payloads.
//
// It only understands enough of the format to locate the sample data: the
// outer RIFF/WAVE tags, the "fmt " chunk and the "data" chunk.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotWAV     = errors.New("wav: not a RIFF/WAVE file")
	ErrNoFormat   = errors.New("wav: missing fmt chunk")
	ErrNoData     = errors.New("wav: missing data chunk")
	ErrTruncated  = errors.New("wav: chunk exceeds file length")
	ErrBlockAlign = errors.New("wav: data length is not a multiple of the block size")
)

// Info describes the sample layout of a WAV payload.
type Info struct {
	Format        uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16

	// DataOffset is the position of the first sample byte; DataLen is the
	// length of the data chunk.
	DataOffset int
	DataLen    int
}

// Duration is the playing time of the data chunk.
func (i Info) Duration() time.Duration {
	if i.ByteRate == 0 {
		return 0
	}
	return time.Duration(float64(i.DataLen) / float64(i.ByteRate) * float64(time.Second))
}

func (i Info) String() string {
	return fmt.Sprintf("%d Hz, %d-bit, %d ch, %s",
		i.SampleRate, i.BitsPerSample, i.Channels, i.Duration().Round(time.Millisecond))
}

// Inspect parses the header of b.
func Inspect(b []byte) (Info, error) {
	var info Info
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return info, ErrNotWAV
	}

	var haveFmt bool
	pos := 12
	for pos+8 <= len(b) {
		tag := string(b[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		body := pos + 8
		if size < 0 || size > len(b)-body {
			return info, fmt.Errorf("%w: %q", ErrTruncated, tag)
		}

		switch tag {
		case "fmt ":
			if size < 16 {
				return info, ErrNoFormat
			}
			f := b[body:]
			info.Format = binary.LittleEndian.Uint16(f[0:2])
			info.Channels = binary.LittleEndian.Uint16(f[2:4])
			info.SampleRate = binary.LittleEndian.Uint32(f[4:8])
			info.ByteRate = binary.LittleEndian.Uint32(f[8:12])
			info.BlockAlign = binary.LittleEndian.Uint16(f[12:14])
			info.BitsPerSample = binary.LittleEndian.Uint16(f[14:16])
			haveFmt = true
		case "data":
			if !haveFmt {
				return info, ErrNoFormat
			}
			info.DataOffset = body
			info.DataLen = size
			return info, nil
		}

		// chunks are padded to an even length
		pos = body + size + size%2
	}
	if !haveFmt {
		return info, ErrNoFormat
	}
	return info, ErrNoData
}

// ReverseFrames returns a copy of b with the order of the sample frames in
// the data chunk reversed. Header bytes and anything after the data chunk
// are unchanged.
func ReverseFrames(b []byte) ([]byte, error) {
	info, err := Inspect(b)
	if err != nil {
		return nil, err
	}
	frame := int(info.BlockAlign)
	if frame == 0 {
		frame = 1
	}
	if info.DataLen%frame != 0 {
		return nil, ErrBlockAlign
	}

	out := make([]byte, len(b))
	copy(out, b)
	data := out[info.DataOffset : info.DataOffset+info.DataLen]
	n := len(data) / frame
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		a := data[i*frame : (i+1)*frame]
		z := data[j*frame : (j+1)*frame]
		for k := 0; k < frame; k++ {
			a[k], z[k] = z[k], a[k]
		}
	}
	return out, nil
}

// Build assembles a PCM WAV file around samples. It is mainly useful for
// tests and fixtures.
func Build(sampleRate uint32, channels, bitsPerSample uint16, samples []byte) []byte {
	blockAlign := channels * bitsPerSample / 8
	out := make([]byte, 0, 44+len(samples))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(samples)))
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint16(out, channels)
	out = binary.LittleEndian.AppendUint32(out, sampleRate)
	out = binary.LittleEndian.AppendUint32(out, sampleRate*uint32(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, blockAlign)
	out = binary.LittleEndian.AppendUint16(out, bitsPerSample)
	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(samples)))
	out = append(out, samples...)
	return out
}
