package rescue

import "github.com/vertgenlab/gonomics/dna"

// buildKmpFailure is the Knuth-Morris-Pratt failure function, used here
// for substring containment rather than tandem-repeat detection.
func buildKmpFailure(pattern []dna.Base) []int {
	failure := make([]int, len(pattern))
	length := 0
	i := 1
	for i < len(pattern) {
		if pattern[i] == pattern[length] {
			failure[i] = length + 1
			length++
			i++
		} else if length > 0 {
			length = failure[length-1]
		} else {
			failure[i] = 0
			i++
		}
	}
	return failure
}

// contains reports whether pattern occurs anywhere in text, using KMP
// so the substring gate stays linear in the rescue window size instead
// of falling back to a naive O(n*m) scan.
func contains(text, pattern []dna.Base) bool {
	if len(pattern) == 0 {
		return true
	}
	if len(pattern) > len(text) {
		return false
	}
	failure := buildKmpFailure(pattern)
	j := 0
	for i := 0; i < len(text); i++ {
		for j > 0 && text[i] != pattern[j] {
			j = failure[j-1]
		}
		if text[i] == pattern[j] {
			j++
		}
		if j == len(pattern) {
			return true
		}
	}
	return false
}

// hasSharedSubstring is has_shared_substring from : sample
// length-floor(2k/3) substrings of readSeq at stride floor(k/3) and
// report whether any of them occurs in refSeq.
func hasSharedSubstring(readSeq, refSeq []dna.Base, k int) bool {
	subSize := 2 * k / 3
	stepSize := k / 3
	if subSize <= 0 || stepSize <= 0 {
		return false
	}
	for i := 0; i+subSize < len(readSeq); i += stepSize {
		if contains(refSeq, readSeq[i:i+subSize]) {
			return true
		}
	}
	return false
}
