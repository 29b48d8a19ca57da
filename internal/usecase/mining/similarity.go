package mining

import "strings"

// titleSimilarity scores two story titles in [0, 1] as 2*M/T, where M is the
// total length of the longest common blocks (found greedily, longest first)
// and T is the combined length. Case-insensitive. Identical titles score 1,
// disjoint titles 0.
func titleSimilarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchedRunes(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(total)
}

// matchedRunes sums matching block lengths by locating the longest common
// block in the window and recursing on both sides of it.
func matchedRunes(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestCommonBlock(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchedRunes(a, b, alo, i, blo, j) +
		matchedRunes(a, b, i+size, ahi, j+size, bhi)
}

// longestCommonBlock finds the longest run of runes common to a[alo:ahi] and
// b[blo:bhi], preferring the earliest occurrence in a, then in b.
func longestCommonBlock(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	runLens := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newRunLens := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := runLens[j-1] + 1
			newRunLens[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		runLens = newRunLens
	}
	return besti, bestj, bestsize
}
