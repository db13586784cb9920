package palette

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchRange is a contiguous run of matched byte offsets in a fuzzy match,
// used to highlight the matched characters of a palette entry's text.
type MatchRange struct {
	Start, End int // End is exclusive
}

// FuzzyMatch scores target against query using sahilm/fuzzy (replacing the
// teacher's ad hoc substring scorer, per SPEC_FULL.md's Domain Stack),
// returning 0 and nil ranges for an empty query or no match.
func FuzzyMatch(query, target string) (int, []MatchRange) {
	if query == "" {
		return 0, nil
	}
	matches := fuzzy.Find(query, []string{target})
	if len(matches) == 0 {
		return 0, nil
	}
	m := matches[0]
	return m.Score, coalesce(m.MatchedIndexes)
}

// coalesce merges consecutive matched indexes into MatchRanges.
func coalesce(idx []int) []MatchRange {
	if len(idx) == 0 {
		return nil
	}
	var ranges []MatchRange
	start := idx[0]
	prev := idx[0]
	for _, i := range idx[1:] {
		if i == prev+1 {
			prev = i
			continue
		}
		ranges = append(ranges, MatchRange{Start: start, End: prev + 1})
		start, prev = i, i
	}
	ranges = append(ranges, MatchRange{Start: start, End: prev + 1})
	return ranges
}

// FilterEntries fuzzy-filters and score-sorts entries by query against
// their CommandID and Desc, matching whichever scores higher.
func FilterEntries(entries []PaletteEntry, query string) []PaletteEntry {
	if strings.TrimSpace(query) == "" {
		out := append([]PaletteEntry(nil), entries...)
		return out
	}
	var out []PaletteEntry
	for _, e := range entries {
		scoreID, rangesID := FuzzyMatch(query, e.CommandID)
		scoreDesc, rangesDesc := FuzzyMatch(query, e.Desc)
		score, ranges := scoreID, rangesID
		if scoreDesc > score {
			score, ranges = scoreDesc, rangesDesc
		}
		if score <= 0 {
			continue
		}
		e.Score = score
		e.MatchRanges = ranges
		out = append(out, e)
	}
	sortByScoreDesc(out)
	return out
}

func sortByScoreDesc(entries []PaletteEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].Score < entries[j].Score; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
