package proximity

import (
	"fmt"
	"strings"
	"testing"
)

// corpus builds roughly size bytes of prose in which "dashboard" and "widget"
// co-occur in about one sentence in ten.
func corpus(size int) []byte {
	sentences := []string{
		"The connection pool opened a database handle for the request. ",
		"Config values were parsed from YAML before the handler ran. ",
		"An HTTP client fetched the endpoint and logged the response. ",
		"The cache lookup missed, so the value was loaded again. ",
		"Each worker drained its queue and reported back to the caller. ",
	}
	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i%10 == 0 {
			sb.WriteString("The dashboard rendered one more widget for the user. ")
		}
		sb.WriteString(sentences[i%len(sentences)])
	}
	return []byte(sb.String())
}

func BenchmarkSearch(b *testing.B) {
	text := corpus(1 << 20)
	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{"naive", []Option{WithAlgorithm(AlgorithmNaive)}},
		{"skip", []Option{WithAlgorithm(AlgorithmSkip)}},
		{"skip/parallel", []Option{WithAlgorithm(AlgorithmSkip), WithWorkers(4)}},
	} {
		e := New(tc.opts...)
		req := Request{Text: text, TermA: "dashboard", TermB: "widget", GapLimit: 30}
		b.Run(tc.name, func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := e.Search(req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSearch_WordGap(b *testing.B) {
	text := corpus(1 << 20)
	req := Request{Text: text, TermA: "dashboard", TermB: "widget", GapLimit: 3, Metric: WordCount, CaseInsensitive: true}
	b.SetBytes(int64(len(text)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Search(req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScan_ChunkSize(b *testing.B) {
	text := corpus(1 << 20)
	m, err := Compile([]byte("handler"), AlgorithmSkip)
	if err != nil {
		b.Fatal(err)
	}
	for _, size := range []int{4 << 10, 64 << 10, 1 << 20} {
		b.Run(fmt.Sprintf("%dKiB", size>>10), func(b *testing.B) {
			s := NewScanner(m, size, true)
			b.SetBytes(int64(len(text)))
			for b.Loop() {
				for range s.Scan(text, 0) {
				}
			}
		})
	}
}
