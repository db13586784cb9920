package filesop

import (
	"testing"
	"time"

	"github.com/yazi-go/yazi/internal/cha"
	"github.com/yazi-go/yazi/internal/vfile"
	"github.com/yazi-go/yazi/internal/yzurl"
)

func sampleFull() Op {
	return NewFull(yzurl.New("/tmp/demo"), []vfile.File{
		{URL: yzurl.New("/tmp/demo/a.txt"), Cha: cha.Cha{Len: 12, Mtime: time.Unix(1000, 0).UTC()}},
		{URL: yzurl.New("/tmp/demo/b"), Cha: cha.Cha{Kind: cha.Dir}},
	})
}

func TestOp_MarshalUnmarshal_RoundTrips(t *testing.T) {
	op := sampleFull()

	data, err := op.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !op.Equal(got) {
		t.Fatalf("round-tripped op not Equal to original: %+v vs %+v", op, got)
	}
}

func TestOp_MarshalUnmarshal_PreservesURL(t *testing.T) {
	op := NewUpserting(yzurl.New("/tmp/demo"), map[string]vfile.File{
		"c.txt": {URL: yzurl.New("/tmp/demo/c.txt"), Cha: cha.Cha{Len: 7}},
	})

	data, err := op.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !yzurl.Equal(op.URL, got.URL) {
		t.Errorf("URL changed across round-trip: %v vs %v", op.URL, got.URL)
	}
	if !yzurl.Equal(op.Upsert["c.txt"].URL, got.Upsert["c.txt"].URL) {
		t.Errorf("Upsert entry URL changed across round-trip")
	}
}

func TestOp_Equal_DetectsDifference(t *testing.T) {
	a := sampleFull()
	b := sampleFull()
	b.Files[0].Cha.Len = 999

	if a.Equal(b) {
		t.Fatalf("expected differing Files[0].Cha.Len to break equality")
	}
	if !a.Equal(sampleFull()) {
		t.Fatalf("expected two separately-built identical ops to be Equal")
	}
}
