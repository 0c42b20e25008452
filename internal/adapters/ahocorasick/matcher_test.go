package ahocorasick

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/prox/internal/domain/proximity"
)

func find(t *testing.T, pattern, haystack string) []int {
	t.Helper()
	m, err := NewMatcher([]byte(pattern))
	require.NoError(t, err)
	return slices.Collect(m.FindAll([]byte(haystack)))
}

func TestMatcher_Positions(t *testing.T) {
	assert.Equal(t, []int{0, 7, 12, 19}, find(t, "abra", "abracadabra abracadabra"))
	assert.Empty(t, find(t, "zebra", "abracadabra"))
}

func TestMatcher_SelfOverlapping(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, find(t, "aa", "aaaa"))
	assert.Equal(t, []int{0, 2, 4}, find(t, "aba", "abababa"))
}

func TestMatcher_CaseSensitive(t *testing.T) {
	// Folding is the kernel's job; the automaton compares bytes.
	assert.Equal(t, []int{6}, find(t, "login", "Login login"))
}

func TestMatcher_EmptyPattern(t *testing.T) {
	_, err := NewMatcher(nil)
	assert.Error(t, err)
}

func TestMatcher_Len(t *testing.T) {
	m, err := NewMatcher([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
}

func TestMatcher_EquivalentToNaive(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 8))
	for i := 0; i < 500; i++ {
		haystack := make([]byte, r.IntN(150))
		for j := range haystack {
			haystack[j] = "ab c"[r.IntN(4)]
		}
		pattern := make([]byte, 1+r.IntN(5))
		for j := range pattern {
			pattern[j] = "abc"[r.IntN(3)]
		}
		naive, err := proximity.Compile(pattern, proximity.AlgorithmNaive)
		require.NoError(t, err)
		m, err := NewMatcher(pattern)
		require.NoError(t, err)
		require.Equal(t, slices.Collect(naive.FindAll(haystack)), slices.Collect(m.FindAll(haystack)),
			"haystack=%q pattern=%q", haystack, pattern)
	}
}

func TestMatcher_AsEngineFactory(t *testing.T) {
	text := strings.Repeat("Alpha gamma BETA ", 200)
	want, err := proximity.New().Search(proximity.Request{
		Text: []byte(text), TermA: "alpha", TermB: "beta", GapLimit: 1, CaseInsensitive: true, Metric: proximity.WordCount,
	})
	require.NoError(t, err)

	e := proximity.New(proximity.WithMatcherFactory(NewMatcher), proximity.WithChunkSize(100))
	got, err := e.Search(proximity.Request{
		Text: []byte(text), TermA: "alpha", TermB: "beta", GapLimit: 1, CaseInsensitive: true, Metric: proximity.WordCount,
	})
	require.NoError(t, err)
	assert.Len(t, got.Matches, 200)
	assert.Equal(t, want.Matches, got.Matches)
}
