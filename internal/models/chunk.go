// ABOUTME: Chunk represents a bounded contiguous slice of an input document
// ABOUTME: Carries ordinal index, source offsets, and overlap bookkeeping
package models

// ChunkUnit is the measurement unit for chunk offsets
type ChunkUnit string

const (
	// ChunkUnitTokens measures text chunks in whitespace-delimited tokens
	ChunkUnitTokens ChunkUnit = "TOKENS"
	// ChunkUnitMillis measures audio chunks in milliseconds
	ChunkUnitMillis ChunkUnit = "MILLISECONDS"
)

// IsValid returns true for known chunk units
func (u ChunkUnit) IsValid() bool {
	switch u {
	case ChunkUnitTokens, ChunkUnitMillis:
		return true
	}
	return false
}

// Chunk is one bounded slice of a document produced by the chunker.
// Index defines the reassembly order. StartOffset/EndOffset locate the
// chunk in the original document, measured in Unit. OverlapWithPrevious
// is the size of the boundary region shared with the preceding chunk,
// also in Unit, so consumers can account for duplicated context.
type Chunk struct {
	ChunkID             string    `json:"chunk_id"`
	Index               int       `json:"index"`
	Unit                ChunkUnit `json:"unit"`
	Content             string    `json:"content,omitempty"`
	Audio               []byte    `json:"-"`
	StartOffset         int       `json:"start_offset"`
	EndOffset           int       `json:"end_offset"`
	OverlapWithPrevious int       `json:"overlap_with_previous"`
}

// Size returns the chunk extent in its unit
func (c Chunk) Size() int {
	return c.EndOffset - c.StartOffset
}
