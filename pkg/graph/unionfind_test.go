package graph

import (
	"testing"

	"github.com/matzehuels/kinetree/pkg/assembly"
)

func newSet(keys ...string) *DisjointSet {
	g := New(false)
	for _, k := range keys {
		g.AddNode(&assembly.Part{Name: k})
	}
	return NewDisjointSet(g)
}

func TestDisjointSet_Singletons(t *testing.T) {
	ds := newSet("a", "b", "c")
	for _, k := range []string{"a", "b", "c"} {
		if got := ds.Find(k); got != k {
			t.Errorf("Find(%s) = %s, want %s", k, got, k)
		}
	}
}

func TestDisjointSet_Union(t *testing.T) {
	ds := newSet("a", "b", "c")

	if !ds.Union("a", "b") {
		t.Error("Union(a, b) = false, want true")
	}
	if ds.Union("b", "a") {
		t.Error("Union(b, a) = true after joining, want false")
	}
	if !ds.Connected("a", "b") {
		t.Error("Connected(a, b) = false, want true")
	}
	if ds.Connected("a", "c") {
		t.Error("Connected(a, c) = true, want false")
	}
}

func TestDisjointSet_TieAttachesSecondUnderFirst(t *testing.T) {
	ds := newSet("a", "b")
	ds.Union("a", "b")

	if got := ds.Find("b"); got != "a" {
		t.Errorf("Find(b) = %s, want a", got)
	}
	if ds.rank["a"] != 1 {
		t.Errorf("rank[a] = %d, want 1", ds.rank["a"])
	}
}

func TestDisjointSet_LowerRankUnderHigher(t *testing.T) {
	ds := newSet("a", "b", "c")
	ds.Union("a", "b") // a has rank 1

	ds.Union("c", "a") // c has rank 0 and goes under a
	if got := ds.Find("c"); got != "a" {
		t.Errorf("Find(c) = %s, want a", got)
	}
	if ds.rank["a"] != 1 {
		t.Errorf("rank[a] = %d, want 1", ds.rank["a"])
	}
}

func TestDisjointSet_FailedUnionDoesNotMutate(t *testing.T) {
	ds := newSet("a", "b")
	ds.Union("a", "b")
	before := ds.rank["a"]

	ds.Union("a", "b")
	if ds.rank["a"] != before {
		t.Errorf("rank[a] changed from %d to %d on a rejected union", before, ds.rank["a"])
	}
}

func TestDisjointSet_PathCompression(t *testing.T) {
	ds := newSet("a", "b", "c", "d")
	ds.Union("a", "b")
	ds.Union("c", "d")
	ds.Union("a", "c") // c's root goes under a; d still points at c

	if ds.parent["d"] != "c" {
		t.Fatalf("parent[d] = %s, want c before compression", ds.parent["d"])
	}
	if got := ds.Find("d"); got != "a" {
		t.Errorf("Find(d) = %s, want a", got)
	}
	if ds.parent["d"] != "a" {
		t.Errorf("parent[d] = %s, want a after compression", ds.parent["d"])
	}
}

func TestDisjointSet_UnknownKey(t *testing.T) {
	ds := newSet("a")
	if got := ds.Find("zz"); got != "zz" {
		t.Errorf("Find(zz) = %s, want zz", got)
	}
}
