// core/kmer/kmer.go
package kmer

// MaxK is the largest window width that packs into a uint64 (2 bits/base).
const MaxK = 32

// code2bit maps ASCII bases to 2-bit codes; 0xff marks unrecognized bytes.
var code2bit [256]byte

func init() {
	for i := range code2bit {
		code2bit[i] = 0xff
	}
	code2bit['A'], code2bit['a'] = 0, 0
	code2bit['C'], code2bit['c'] = 1, 1
	code2bit['G'], code2bit['g'] = 2, 2
	code2bit['T'], code2bit['t'] = 3, 3
}

// Encode packs a window of 1..32 bases into the canonical 2-bit encoding:
// the numerically smaller of the forward code and the reverse-complement
// code, so both strands map to the same key. ok is false if the window
// length is out of range or any byte is not A/C/G/T (case-insensitive).
func Encode(window []byte) (uint64, bool) {
	k := len(window)
	if k == 0 || k > MaxK {
		return 0, false
	}
	var fwd, rc uint64
	for _, b := range window {
		v := code2bit[b]
		if v == 0xff {
			return 0, false
		}
		fwd = fwd<<2 | uint64(v)
	}
	for i := k - 1; i >= 0; i-- {
		v := code2bit[window[i]]
		rc = rc<<2 | uint64(3-v)
	}
	if rc < fwd {
		return rc, true
	}
	return fwd, true
}

// FindInvalid returns the offset of the last unrecognized byte in window,
// or -1 if every byte is a valid base. Scanners jump past that offset
// instead of re-testing every overlapping window.
func FindInvalid(window []byte) int {
	for i := len(window) - 1; i >= 0; i-- {
		if code2bit[window[i]] == 0xff {
			return i
		}
	}
	return -1
}

// Scan slides a width-k window over seq and calls visit with the start
// position and canonical code of every encodable window. On an invalid
// byte it skips directly past it.
func Scan(seq []byte, k int, visit func(pos int, code uint64)) {
	if k <= 0 || k > MaxK {
		return
	}
	for i := 0; i+k <= len(seq); {
		window := seq[i : i+k]
		code, ok := Encode(window)
		if !ok {
			i += FindInvalid(window) + 1
			continue
		}
		visit(i, code)
		i++
	}
}
