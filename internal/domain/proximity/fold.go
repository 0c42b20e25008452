package proximity

// foldTable maps every byte to its ASCII lower-case form. Non-ASCII bytes map to
// themselves so folding never changes offsets.
var foldTable [256]byte

func init() {
	for i := range foldTable {
		c := byte(i)
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		foldTable[i] = c
	}
}

// Fold appends the ASCII case-folded form of src to dst and returns the extended slice.
func Fold(dst, src []byte) []byte {
	n := len(dst)
	if cap(dst)-n < len(src) {
		grown := make([]byte, n, n+len(src))
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+len(src)]
	out := dst[n:]
	for i, c := range src {
		out[i] = foldTable[c]
	}
	return dst
}

func foldString(s string) []byte {
	return Fold(nil, []byte(s))
}
