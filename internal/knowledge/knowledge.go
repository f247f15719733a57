// Package knowledge splits the FAQ book into chunks and finds the chunks
// most relevant to a query by keyword overlap.
package knowledge

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the chunk budget in estimated tokens
const DefaultChunkSize = 1000

// DefaultTopK is how many chunks are returned for a query
const DefaultTopK = 2

// charsPerToken approximates tokens for Bengali text
const charsPerToken = 3

// Chunk is a contiguous run of sentences from the source text
type Chunk struct {
	Index   int
	Content string
	Tokens  int
}

// Match is a chunk scored against a query
type Match struct {
	Chunk Chunk
	Score int
}

// Base holds the chunked FAQ content
type Base struct {
	chunks []Chunk
}

// New chunks text into a Base. A non-positive chunkSize uses DefaultChunkSize.
func New(text string, chunkSize int) *Base {
	return &Base{chunks: ChunkText(text, chunkSize)}
}

// Load reads and chunks the file at path
func Load(path string, chunkSize int) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}
	return New(string(data), chunkSize), nil
}

// Chunks returns the chunks in source order
func (b *Base) Chunks() []Chunk {
	if b == nil {
		return nil
	}
	return b.chunks
}

// Len returns the number of chunks
func (b *Base) Len() int {
	if b == nil {
		return 0
	}
	return len(b.chunks)
}

// Search scores every chunk against query and returns the topK best.
// Chunks with equal scores are ordered by content, descending.
func (b *Base) Search(query string, topK int) []Match {
	if b == nil || len(b.chunks) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryWords := wordSet(query)
	matches := make([]Match, 0, len(b.chunks))
	for _, c := range b.chunks {
		matches = append(matches, Match{Chunk: c, Score: overlap(queryWords, wordSet(c.Content))})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Chunk.Content > matches[j].Chunk.Content
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// RelevantContext returns the topK chunk texts for query joined by blank lines
func (b *Base) RelevantContext(query string, topK int) string {
	matches := b.Search(query, topK)
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.Chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

// ChunkText splits text into pieces (see SplitSentences) and packs them
// into chunks of at most chunkSize estimated tokens, joined by spaces. A
// single piece larger than the budget becomes its own chunk.
func ChunkText(text string, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var (
		chunks  []Chunk
		current []string
		length  int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Content: strings.Join(current, " "),
			Tokens:  length,
		})
		current = nil
		length = 0
	}

	for _, piece := range SplitSentences(text) {
		n := EstimateTokens(piece)
		if length+n > chunkSize {
			flush()
		}
		current = append(current, piece)
		length += n
	}
	flush()

	return chunks
}

// SplitSentences breaks text at the danda "।", newlines and ". ". The danda
// and the period are returned as pieces of their own, so the last word of a
// sentence stays a separate word when chunks are matched. Newlines and
// blank pieces are dropped.
func SplitSentences(text string) []string {
	var (
		pieces []string
		sb     strings.Builder
	)

	emit := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			pieces = append(pieces, s)
		}
	}
	cut := func() {
		emit(sb.String())
		sb.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\n':
			cut()
		case r == '।':
			cut()
			emit("।")
		case r == '.' && i+1 < len(runes) && isSpace(runes[i+1]):
			cut()
			emit(".")
			i++ // the whitespace belongs to the separator
		default:
			sb.WriteRune(r)
		}
	}
	cut()

	return pieces
}

// EstimateTokens approximates the token count of s
func EstimateTokens(s string) int {
	return utf8.RuneCountInString(s) / charsPerToken
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
