// ABOUTME: Minimal in-memory WAV framing for 16-bit PCM audio
// ABOUTME: Decodes uploads into mono PCM and re-encodes chunk windows for the API
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const wavHeaderSize = 44

var (
	// ErrNotWAV means the input does not carry a RIFF/WAVE header
	ErrNotWAV = errors.New("not a RIFF/WAVE file")
	// ErrUnsupportedFormat means the WAV is not 16-bit integer PCM
	ErrUnsupportedFormat = errors.New("only 16-bit PCM WAV is supported")
)

// Decode parses a WAV file and returns mono 16-bit PCM plus the sample
// rate. Stereo input is downmixed by averaging the two channels, which
// matches how recordings are normalized before transcription.
func Decode(data []byte) (pcm []byte, sampleRate int, err error) {
	if len(data) < wavHeaderSize ||
		!bytes.Equal(data[0:4], []byte("RIFF")) ||
		!bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, 0, ErrNotWAV
	}

	var (
		channels      int
		bitsPerSample int
		sampleData    []byte
	)

	// Walk the chunk list; fmt must precede data
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			size = len(data) - body
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, ErrUnsupportedFormat
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 { // PCM only
				return nil, 0, ErrUnsupportedFormat
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			sampleData = data[body : body+size]
		}

		// Chunks are word-aligned
		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if sampleRate == 0 || sampleData == nil {
		return nil, 0, ErrNotWAV
	}
	if bitsPerSample != 16 || channels < 1 || channels > 2 {
		return nil, 0, ErrUnsupportedFormat
	}

	if channels == 1 {
		return sampleData, sampleRate, nil
	}
	return downmixStereo(sampleData), sampleRate, nil
}

// downmixStereo averages left/right 16-bit samples into mono
func downmixStereo(data []byte) []byte {
	frames := len(data) / 4
	mono := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		left := int16(binary.LittleEndian.Uint16(data[i*4 : i*4+2]))
		right := int16(binary.LittleEndian.Uint16(data[i*4+2 : i*4+4]))
		mixed := int16((int32(left) + int32(right)) / 2)
		binary.LittleEndian.PutUint16(mono[i*2:i*2+2], uint16(mixed))
	}
	return mono
}

// Encode wraps mono 16-bit PCM in a WAV container
func Encode(pcm []byte, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("PCM data must contain whole 16-bit samples, got %d bytes", len(pcm))
	}

	buf := make([]byte, wavHeaderSize+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16)                   // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[44:], pcm)

	return buf, nil
}
