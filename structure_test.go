package frames

import (
	"slices"
	"testing"
)

func TestCompareFrames(t *testing.T) {
	r := New()
	for _, id := range []string{"a", "b", "c"} {
		r.CreateFrame(id)
	}
	r.CreateSlot("a", "x")
	r.CreateSlot("a", "y")
	r.CreateSlot("b", "y")
	r.CreateSlot("b", "x")
	r.CreateSlot("c", "x")

	if !r.CompareFrames("a", "b") || r.CompareFrames("a", "c") || r.CompareFrames("a", "ghost") {
		t.Fatalf("unexpected frame comparison")
	}
}

func TestCompareSlot(t *testing.T) {
	r := New()
	r.CreateFrame("a")
	r.CreateFrame("b")
	mustValue(t, r, "a", "x", "1")
	mustValue(t, r, "b", "x", "1")
	if !r.CompareSlot("a", "x", "b") {
		t.Fatalf("expected equal slots")
	}
	r.PutValue("b", "x", "2")
	if r.CompareSlot("a", "x", "b") {
		t.Fatalf("expected differing values")
	}
	r.PutValue("b", "x", "1")
	r.CreateDemon("b", "x", IfGetV)
	if r.CompareSlot("a", "x", "b") {
		t.Fatalf("expected differing facets")
	}
	r.CreateDemon("a", "x", IfGetV)
	r.PutDemon("a", "x", IfGetV, Named("audit", Action(nil)))
	if r.CompareSlot("a", "x", "b") {
		t.Fatalf("expected differing demon bodies")
	}
	r.PutDemon("b", "x", IfGetV, Named("audit", Action(nil)))
	if !r.CompareSlot("a", "x", "b") {
		t.Fatalf("expected bodies with the same name to compare equal")
	}
}

func TestMergeInto(t *testing.T) {
	r := New()
	r.CreateFrame("src")
	r.CreateFrame("dst")
	mustValue(t, r, "src", "x", "1")
	mustValue(t, r, "src", "y", "src")
	mustValue(t, r, "dst", "y", "dst")
	rec := &calls{}
	mustDemon(t, r, "src", "x", IfGetV, rec.body())

	if !r.MergeInto("src", "dst") {
		t.Fatalf("expected merge")
	}
	if got, _ := r.GetValue("dst", "y"); !slices.Equal(got, []string{"dst"}) {
		t.Fatalf("expected existing slot kept, got %v", got)
	}
	if len(rec.seen) != 0 {
		t.Fatalf("expected merge to fire no demons")
	}
	r.PutValue("dst", "x", "2")
	if got, _ := r.GetValue("src", "x"); !slices.Equal(got, []string{"1"}) {
		t.Fatalf("expected merged slot to be a copy, got %v", got)
	}
	if r.MergeInto("src", "ghost") {
		t.Fatalf("expected missing destination to fail")
	}
}

func TestSyncShapeIsIdempotent(t *testing.T) {
	r := New()
	r.CreateFrame("src")
	r.CreateFrame("dst")
	r.CreateSlot("src", "x")
	r.CreateSlot("src", "y")
	mustValue(t, r, "dst", "y", "kept")
	r.CreateSlot("dst", "z")

	for i := 0; i < 2; i++ {
		if !r.SyncShape("src", "dst") {
			t.Fatalf("expected sync")
		}
		if !r.CompareFrames("src", "dst") {
			t.Fatalf("expected same shape, got %v", r.ListSlots("dst"))
		}
	}
	if got, _ := r.GetValue("dst", "y"); !slices.Equal(got, []string{"kept"}) {
		t.Fatalf("expected shared slot content kept, got %v", got)
	}
	if facets := r.ListFacets("dst", "x"); len(facets) != 0 {
		t.Fatalf("expected added slot to be empty, got %v", facets)
	}
}

func TestSubtractShape(t *testing.T) {
	r := New()
	r.CreateFrame("src")
	r.CreateFrame("dst")
	r.CreateSlot("src", "x")
	r.CreateSlot("dst", "x")
	r.CreateSlot("dst", "y")

	if !r.SubtractShape("src", "dst") {
		t.Fatalf("expected subtract")
	}
	if got := r.ListSlots("dst"); !slices.Equal(got, []string{"y"}) {
		t.Fatalf("unexpected slots %v", got)
	}
}

func TestCloneFrame(t *testing.T) {
	r := New()
	r.CreateFrame("apple")
	mustValue(t, r, "apple", "color", "red")
	mustReference(t, r, "apple", "kind", "fruit")

	if !r.CloneFrame("apple", "apple2") {
		t.Fatalf("expected clone")
	}
	if !r.CompareFrames("apple", "apple2") || !r.CompareSlot("apple", "color", "apple2") {
		t.Fatalf("expected identical copy")
	}
	r.PutValue("apple2", "color", "green")
	if got, _ := r.GetValue("apple", "color"); !slices.Equal(got, []string{"red"}) {
		t.Fatalf("expected clone to be independent, got %v", got)
	}

	r.CreateFrame("pear")
	r.CreateSlot("pear", "stale")
	r.CloneFrame("apple", "pear")
	if r.SlotExists("pear", "stale") {
		t.Fatalf("expected clone to replace the destination")
	}
	if !r.CloneFrame("apple", "apple") || r.CloneFrame("ghost", "x") || r.CloneFrame("apple", "") {
		t.Fatalf("unexpected clone edge cases")
	}
}

func TestCloneFramesetDropsSelfMembership(t *testing.T) {
	r := New()
	r.CreateFrameset("fruit")
	r.CreateFrame("apple")
	r.CreateFrame("copy")
	fs := r.Frameset("fruit")
	fs.Include("apple")
	fs.Include("copy")

	r.CloneFrame("fruit", "copy")
	if !r.IsFrameset("copy") {
		t.Fatalf("expected clone to keep the frameset flag")
	}
	if got := r.Frameset("copy").Members(); !slices.Equal(got, []string{"apple"}) {
		t.Fatalf("unexpected members %v", got)
	}
}

func TestCloneSlot(t *testing.T) {
	r := New()
	r.CreateFrame("a")
	r.CreateFrame("b")
	mustValue(t, r, "a", "x", "1")
	mustValue(t, r, "b", "x", "2")

	if !r.CloneSlot("a", "x", "b") || !r.CompareSlot("a", "x", "b") {
		t.Fatalf("expected slot copy")
	}
	if r.CloneSlot("a", "missing", "b") || r.CloneSlot("a", "x", "ghost") {
		t.Fatalf("expected missing source or destination to fail")
	}
}

func TestFindQueries(t *testing.T) {
	r := New()
	for _, id := range []string{"apple", "fig", "kiwi", "pear", "plum"} {
		r.CreateFrame(id)
	}
	mustValue(t, r, "apple", "color", "red")
	mustValue(t, r, "pear", "color", "green")
	mustReference(t, r, "plum", "color", "apple")
	r.CreateSlot("fig", "color")

	if got := r.Find("color"); !slices.Equal(got, []string{"apple", "pear", "plum"}) {
		t.Fatalf("unexpected find %v", got)
	}
	if got := r.FindEqual("color", "red"); !slices.Equal(got, []string{"apple", "plum"}) {
		t.Fatalf("unexpected find equal %v", got)
	}
	if got := r.FindNotEqual("color", "red"); !slices.Equal(got, []string{"pear"}) {
		t.Fatalf("unexpected find not equal %v", got)
	}
	if got := r.Find("size"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

type sliceBody struct {
	data any
}

func (sliceBody) Invoke(CallContext) (any, error) { return nil, nil }

func TestCompareSlotWithUncomparableBodies(t *testing.T) {
	r := New()
	for _, id := range []string{"a", "b"} {
		r.CreateFrame(id)
		r.CreateSlot(id, "s")
		r.CreateMethod(id, "s")
		if !r.PutMethod(id, "s", sliceBody{data: []string{"x"}}) {
			t.Fatalf("put method on %s", id)
		}
	}
	if r.CompareSlot("a", "s", "b") {
		t.Fatalf("expected uncomparable bodies to differ")
	}

	r.PutMethod("a", "s", sliceBody{data: "x"})
	r.PutMethod("b", "s", sliceBody{data: "x"})
	if !r.CompareSlot("a", "s", "b") {
		t.Fatalf("expected equal comparable bodies to match")
	}
}
