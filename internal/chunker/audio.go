// ABOUTME: Audio chunker producing fixed-duration PCM windows with overlap
// ABOUTME: Operates on 16-bit mono PCM, offsets measured in milliseconds
package chunker

import (
	"github.com/harper/chunkflow/internal/models"
)

// SplitAudio splits 16-bit mono PCM into windows of maxMillis
// milliseconds, with overlapMillis of audio repeated at the start of
// every window after the first. The final window keeps whatever
// remainder is left rather than being padded.
func SplitAudio(pcm []byte, sampleRate, maxMillis, overlapMillis int) ([]models.Chunk, error) {
	if err := validateSizes(maxMillis, overlapMillis); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, models.NewChunkError(models.ErrInvalidConfiguration, "sample rate must be positive")
	}
	if len(pcm)%2 != 0 {
		return nil, models.NewChunkError(models.ErrInvalidConfiguration, "PCM data must contain whole 16-bit samples")
	}
	if len(pcm) == 0 {
		return []models.Chunk{}, nil
	}

	totalMillis := len(pcm) / 2 * 1000 / sampleRate
	msToByte := func(ms int) int {
		b := ms * sampleRate / 1000 * 2
		if b > len(pcm) {
			b = len(pcm)
		}
		return b
	}

	var chunks []models.Chunk
	stride := maxMillis - overlapMillis

	for k := 0; ; k++ {
		start := k * stride
		ov := overlapMillis
		if k == 0 {
			ov = 0
		}
		// Stop once no new audio remains past the overlap region
		if msToByte(start+ov) >= len(pcm) {
			break
		}

		end := start + maxMillis
		endByte := msToByte(end)
		if end >= totalMillis {
			end = totalMillis
			endByte = len(pcm) // keep remainder samples past the floor
		}

		chunks = append(chunks, models.Chunk{
			ChunkID:             generateChunkID(),
			Index:               len(chunks),
			Unit:                models.ChunkUnitMillis,
			Audio:               pcm[msToByte(start):endByte],
			StartOffset:         start,
			EndOffset:           end,
			OverlapWithPrevious: ov,
		})

		if endByte == len(pcm) {
			break
		}
	}

	return chunks, nil
}
