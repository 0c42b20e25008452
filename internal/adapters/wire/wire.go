// Package wire encodes match lists in the legacy flat format: signed 32-bit
// integers, three per match (start, span, gap), terminated by a single -1.
// It exists for interop with hosts that read results from shared memory.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/corey/prox/internal/domain/proximity"
)

// Sentinel terminates an encoded sequence.
const Sentinel int32 = -1

var (
	// ErrMissingSentinel means the sequence ended without a -1 terminator.
	ErrMissingSentinel = errors.New("wire: missing sentinel")
	// ErrMalformed means the sequence is not a whole number of triples.
	ErrMalformed = errors.New("wire: malformed sequence")
)

// Encode flattens matches into triples followed by the sentinel.
func Encode(matches []proximity.Match) ([]int32, error) {
	out := make([]int32, 0, 3*len(matches)+1)
	for i, m := range matches {
		if m.Start < 0 || m.Span < 0 || m.Gap < 0 ||
			m.Start > math.MaxInt32 || m.Span > math.MaxInt32 || m.Gap > math.MaxInt32 {
			return nil, fmt.Errorf("wire: match %d %+v does not fit in int32", i, m)
		}
		out = append(out, int32(m.Start), int32(m.Span), int32(m.Gap))
	}
	return append(out, Sentinel), nil
}

// Decode reads triples up to the sentinel. Values after the sentinel are ignored.
func Decode(words []int32) ([]proximity.Match, error) {
	var matches []proximity.Match
	for i := 0; i < len(words); i += 3 {
		if words[i] == Sentinel {
			return matches, nil
		}
		if i+2 >= len(words) {
			return nil, ErrMalformed
		}
		matches = append(matches, proximity.Match{
			Start: int(words[i]),
			Span:  int(words[i+1]),
			Gap:   int(words[i+2]),
		})
	}
	return nil, ErrMissingSentinel
}

// Write encodes matches as little-endian int32 values to w.
func Write(w io.Writer, matches []proximity.Match) error {
	words, err := Encode(matches)
	if err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, words)
}

// Marshal returns the little-endian byte form of the encoded matches.
func Marshal(matches []proximity.Match) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, matches); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the little-endian byte form.
func Unmarshal(data []byte) ([]proximity.Match, error) {
	if len(data)%4 != 0 {
		return nil, ErrMalformed
	}
	words := make([]int32, len(data)/4)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}
	return Decode(words)
}
