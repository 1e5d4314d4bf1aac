// Package screening is the funnel between raw search results and synthesis:
// deduplicate, quality-filter, then relevance-score. The stages run in that
// fixed order so later, more expensive stages never see records an earlier
// stage would have dropped.
package screening

import (
	"strings"
	"unicode"

	"github.com/joelkehle/litreview/internal/paper"
)

// titleSimilarityThreshold is the ratio above which two normalized titles are
// treated as the same work.
const titleSimilarityThreshold = 0.95

type Deduplicator struct{}

// Deduplicate removes records that share an external identifier (DOI, PMID,
// or Semantic Scholar ID) or a near-identical normalized title with an
// earlier record. First occurrence wins; order is preserved.
func (Deduplicator) Deduplicate(papers []paper.Paper) []paper.Paper {
	seenIDs := make(map[string]struct{})
	var seenTitles []string
	var result []paper.Paper

	for _, p := range papers {
		ids := p.ExternalIDs
		if _, ok := seenIDs[ids.DOI]; ok && ids.DOI != "" {
			continue
		}
		if _, ok := seenIDs[ids.PMID]; ok && ids.PMID != "" {
			continue
		}
		if _, ok := seenIDs[ids.S2ID]; ok && ids.S2ID != "" {
			continue
		}

		normalized := normalizeTitle(p.Title)
		duplicateTitle := false
		for _, existing := range seenTitles {
			if similarityRatio(normalized, existing) > titleSimilarityThreshold {
				duplicateTitle = true
				break
			}
		}
		if duplicateTitle {
			continue
		}

		result = append(result, p)
		seenTitles = append(seenTitles, normalized)
		if ids.DOI != "" {
			seenIDs[ids.DOI] = struct{}{}
		}
		if ids.PMID != "" {
			seenIDs[ids.PMID] = struct{}{}
		}
		if ids.S2ID != "" {
			seenIDs[ids.S2ID] = struct{}{}
		}
	}
	return result
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// similarityRatio returns 2*M/T where M is the total length of matching
// blocks between a and b and T is the combined length. Matching blocks are
// found by repeatedly taking the longest common substring and recursing on
// the pieces to its left and right.
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	matched := 0
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(ra), 0, len(rb)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		bi, bj, size := longestMatch(ra, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if size == 0 {
			continue
		}
		matched += size
		queue = append(queue,
			span{s.alo, bi, s.blo, bj},
			span{bi + size, s.ahi, bj + size, s.bhi},
		)
	}
	return 2 * float64(matched) / float64(total)
}

func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
