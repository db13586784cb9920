package palette

import (
	"testing"

	"github.com/yazi-go/yazi/internal/keymap"
)

func TestFuzzyMatch_EmptyQuery(t *testing.T) {
	score, ranges := FuzzyMatch("", "stage-file")
	if score != 0 {
		t.Errorf("empty query should return 0 score, got %d", score)
	}
	if ranges != nil {
		t.Errorf("empty query should return nil ranges, got %v", ranges)
	}
}

func TestFuzzyMatch_ExactMatch(t *testing.T) {
	score, ranges := FuzzyMatch("stage", "stage")
	if score <= 0 {
		t.Errorf("exact match should have positive score, got %d", score)
	}
	if len(ranges) != 1 || ranges[0].Start != 0 || ranges[0].End != 5 {
		t.Errorf("exact match should have single range [0,5], got %v", ranges)
	}
}

func TestFuzzyMatch_PartialMatch(t *testing.T) {
	score, ranges := FuzzyMatch("stg", "stage")
	if score <= 0 {
		t.Errorf("partial match should have positive score, got %d", score)
	}
	if len(ranges) == 0 {
		t.Errorf("partial match should have ranges, got none")
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	score, ranges := FuzzyMatch("xyz", "stage")
	if score != 0 {
		t.Errorf("no match should return 0 score, got %d", score)
	}
	if ranges != nil {
		t.Errorf("no match should return nil ranges, got %v", ranges)
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	score1, _ := FuzzyMatch("STAGE", "stage")
	score2, _ := FuzzyMatch("stage", "STAGE")
	if score1 <= 0 || score2 <= 0 {
		t.Errorf("case insensitive match should work, got scores %d, %d", score1, score2)
	}
}

func TestFuzzyMatch_ConsecutiveScoresHigherThanScattered(t *testing.T) {
	// "sta" is a contiguous run in "stage"; "sae" is scattered across it.
	score1, _ := FuzzyMatch("sta", "stage")
	score2, _ := FuzzyMatch("sae", "stage")
	if score1 <= score2 {
		t.Errorf("consecutive matches should score higher: sta=%d, sae=%d", score1, score2)
	}
}

func TestFilterEntries_EmptyQueryReturnsAllUnsorted(t *testing.T) {
	entries := []PaletteEntry{
		{CommandID: "stage", Layer: keymap.LayerManager},
		{CommandID: "commit", Layer: keymap.LayerManager},
		{CommandID: "diff", Layer: keymap.LayerManager},
	}

	filtered := FilterEntries(entries, "")
	if len(filtered) != 3 {
		t.Errorf("empty query should return all entries, got %d", len(filtered))
	}
}

func TestFilterEntries_WithQueryMatchesCommandIDOrDesc(t *testing.T) {
	entries := []PaletteEntry{
		{CommandID: "stage-file", Desc: "Stage file"},
		{CommandID: "push-remote", Desc: "Push changes"},
		{CommandID: "show-status", Desc: "Show status"},
	}

	filtered := FilterEntries(entries, "sta")
	if len(filtered) < 2 {
		t.Errorf("'sta' should match at least stage-file and show-status, got %d", len(filtered))
	}
	if filtered[0].CommandID != "stage-file" {
		t.Errorf("first result should be 'stage-file' (contiguous match), got %q", filtered[0].CommandID)
	}
}

func TestFilterEntries_NoMatches(t *testing.T) {
	entries := []PaletteEntry{
		{CommandID: "push"},
		{CommandID: "pull"},
	}

	filtered := FilterEntries(entries, "xyz")
	if len(filtered) != 0 {
		t.Errorf("'xyz' should match nothing, got %d", len(filtered))
	}
}

func TestFilterEntries_SortedByScoreDescending(t *testing.T) {
	entries := []PaletteEntry{
		{CommandID: "status"},
		{CommandID: "stage"},
		{CommandID: "st"},
	}

	filtered := FilterEntries(entries, "st")
	for i := 1; i < len(filtered); i++ {
		if filtered[i-1].Score < filtered[i].Score {
			t.Fatalf("expected descending score order, got %+v", filtered)
		}
	}
}

func TestSortByScoreDescIsStableDescending(t *testing.T) {
	entries := []PaletteEntry{
		{CommandID: "low", Score: 10},
		{CommandID: "high", Score: 100},
		{CommandID: "mid", Score: 50},
	}

	sortByScoreDesc(entries)

	if entries[0].CommandID != "high" || entries[1].CommandID != "mid" || entries[2].CommandID != "low" {
		t.Errorf("entries should be sorted by score descending, got %+v", entries)
	}
}
