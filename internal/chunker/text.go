// ABOUTME: Text chunker with hierarchical splitting and token overlap
// ABOUTME: Splits by paragraph, list item, and sentence before falling back to word runs
package chunker

import (
	"regexp"
	"strings"

	"github.com/harper/chunkflow/internal/models"
)

var (
	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
	underlineRe      = regexp.MustCompile(`^[=\-_]{3,}$`)
	bulletItemRe     = regexp.MustCompile(`^[-*+•]\s+`)
	numberedItemRe   = regexp.MustCompile(`^\d+\.\s+`)
)

// SplitText splits text into overlapping chunks measured in whitespace
// tokens. Semantic units (paragraphs, list items, sentences) are kept
// whole when they fit; a unit larger than maxTokens is force-split into
// word runs. Each chunk after the first starts with the trailing
// overlapTokens of the previous chunk, chosen on unit boundaries where
// possible.
func SplitText(text string, maxTokens, overlapTokens int) ([]models.Chunk, error) {
	if err := validateSizes(maxTokens, overlapTokens); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []models.Chunk{}, nil
	}

	b := &textBuilder{max: maxTokens, overlap: overlapTokens}
	for _, seg := range splitHierarchically(text) {
		b.add(seg)
	}
	b.finalize()
	return b.chunks, nil
}

// textBuilder accumulates token segments into chunks
type textBuilder struct {
	max     int
	overlap int

	chunks   []models.Chunk
	segments [][]string // pending segments, possibly starting with an overlap tail
	overlapN int        // token count of the overlap prefix in segments
	newN     int        // token count of non-overlap tokens in segments
	consumed int        // original tokens emitted across all finalized chunks
}

func (b *textBuilder) add(seg []string) {
	n := len(seg)
	if n == 0 {
		return
	}
	if n > b.max {
		b.finalize()
		b.emitOversized(seg)
		return
	}
	if b.overlapN+b.newN+n > b.max {
		b.finalize()
		// Shrink the carried overlap if the incoming unit leaves no room
		for b.overlapN+n > b.max && len(b.segments) > 0 {
			b.overlapN -= len(b.segments[0])
			b.segments = b.segments[1:]
		}
	}
	b.segments = append(b.segments, seg)
	b.newN += n
}

// finalize closes the pending chunk (if it has new content) and seeds
// the overlap tail for the next one
func (b *textBuilder) finalize() {
	if b.newN == 0 {
		return
	}

	var tokens []string
	for _, seg := range b.segments {
		tokens = append(tokens, seg...)
	}

	b.chunks = append(b.chunks, models.Chunk{
		ChunkID:             generateChunkID(),
		Index:               len(b.chunks),
		Unit:                models.ChunkUnitTokens,
		Content:             strings.Join(tokens, " "),
		StartOffset:         b.consumed - b.overlapN,
		EndOffset:           b.consumed + b.newN,
		OverlapWithPrevious: b.overlapN,
	})
	b.consumed += b.newN

	b.segments, b.overlapN = overlapTail(b.segments, b.overlap)
	b.newN = 0
}

// overlapTail picks trailing whole segments whose combined size fits the
// overlap budget, falling back to a word-boundary token tail when even
// the last segment alone is too big
func overlapTail(segments [][]string, budget int) ([][]string, int) {
	if budget <= 0 || len(segments) == 0 {
		return nil, 0
	}

	var tail [][]string
	total := 0
	for i := len(segments) - 1; i >= 0; i-- {
		if total+len(segments[i]) > budget {
			break
		}
		tail = append([][]string{segments[i]}, tail...)
		total += len(segments[i])
	}
	if total > 0 {
		return tail, total
	}

	last := segments[len(segments)-1]
	if budget > len(last) {
		budget = len(last)
	}
	return [][]string{last[len(last)-budget:]}, budget
}

// emitOversized force-splits a single unit larger than maxTokens into
// word-run windows with the configured overlap carried between windows
func (b *textBuilder) emitOversized(tokens []string) {
	// Windows manage their own context; drop any carried overlap
	b.segments, b.overlapN = nil, 0

	n := len(tokens)
	stride := b.max - b.overlap

	for k := 0; ; k++ {
		start := k * stride
		ov := b.overlap
		if k == 0 {
			ov = 0
		}
		if start+ov >= n {
			break
		}
		end := start + b.max
		if end > n {
			end = n
		}
		win := tokens[start:end]
		newCount := end - start - ov

		b.chunks = append(b.chunks, models.Chunk{
			ChunkID:             generateChunkID(),
			Index:               len(b.chunks),
			Unit:                models.ChunkUnitTokens,
			Content:             strings.Join(win, " "),
			StartOffset:         b.consumed - ov,
			EndOffset:           b.consumed + newCount,
			OverlapWithPrevious: ov,
		})
		b.consumed += newCount

		if end == n {
			// Seed overlap for whatever unit comes next
			b.segments, b.overlapN = overlapTail([][]string{win}, b.overlap)
			break
		}
	}
}

// splitHierarchically breaks text into token segments respecting
// paragraph, heading, list item, and sentence boundaries
func splitHierarchically(text string) [][]string {
	var segments [][]string

	for _, para := range paragraphSplitRe.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		switch {
		case isSectionHeader(para):
			segments = append(segments, strings.Fields(para))
		case isListContent(para):
			for _, item := range splitListItems(para) {
				if fields := strings.Fields(item); len(fields) > 0 {
					segments = append(segments, fields)
				}
			}
		default:
			for _, sentence := range splitSentences(para) {
				if fields := strings.Fields(sentence); len(fields) > 0 {
					segments = append(segments, fields)
				}
			}
		}
	}

	return segments
}

// isSectionHeader detects markdown and underlined headings
func isSectionHeader(text string) bool {
	lines := strings.Split(text, "\n")
	first := strings.TrimSpace(lines[0])

	if strings.HasPrefix(first, "#") {
		return true
	}
	if len(lines) >= 2 && underlineRe.MatchString(strings.TrimSpace(lines[1])) {
		return true
	}
	return false
}

// isListContent reports whether more than 30% of lines look like list items
func isListContent(text string) bool {
	lines := strings.Split(text, "\n")
	indicators := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if bulletItemRe.MatchString(line) || numberedItemRe.MatchString(line) {
			indicators++
		}
	}
	return indicators > 0 && float64(indicators)/float64(len(lines)) > 0.3
}

// splitListItems splits a list block into individual items, keeping
// continuation lines attached to their item
func splitListItems(text string) []string {
	var items []string
	var current []string

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if bulletItemRe.MatchString(stripped) || numberedItemRe.MatchString(stripped) {
			if len(current) > 0 {
				items = append(items, strings.Join(current, "\n"))
				current = nil
			}
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		items = append(items, strings.Join(current, "\n"))
	}

	return items
}

// splitSentences splits on terminal punctuation followed by whitespace
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		if i+1 < len(runes) && !isSpaceRune(runes[i+1]) {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
