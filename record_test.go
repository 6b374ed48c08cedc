package frames

import (
	"errors"
	"slices"
	"testing"
)

func TestExportRecord(t *testing.T) {
	r := New()
	r.CreateFrame("apple")
	mustValue(t, r, "apple", "color", "red", "green")
	mustReference(t, r, "apple", "kind", "fruit")
	r.CreateSlot("apple", "greet")
	r.CreateMethod("apple", "greet")
	r.PutMethod("apple", "greet", Named("greet", Action(nil)))
	r.CreateDemon("apple", "color", IfPutV)
	r.CreateSlot("apple", "empty")

	rec, ok := r.Export("apple")
	if !ok {
		t.Fatalf("expected export")
	}
	want := Record{
		"slots":        {"color", "empty", "greet", "kind"},
		"color,value":  {"red", "green"},
		"color,ifputv": {},
		"kind,ref":     {"fruit"},
		"greet,method": {"greet"},
	}
	if !slices.Equal(rec.Keys(), want.Keys()) {
		t.Fatalf("unexpected keys %v", rec.Keys())
	}
	for key, tokens := range want {
		if !slices.Equal(rec[key], tokens) {
			t.Fatalf("%s: expected %v, got %v", key, tokens, rec[key])
		}
	}
	if _, ok := r.Export("ghost"); ok {
		t.Fatalf("expected export of a missing frame to fail")
	}
}

func TestImportRoundTrip(t *testing.T) {
	table := NewMethodTable()
	rec := &calls{}
	table.Register("greet", rec.body())

	src := New(WithMethodTable(table))
	src.CreateFrame("apple")
	mustValue(t, src, "apple", "color", "red")
	mustReference(t, src, "apple", "kind", "fruit")
	src.CreateSlot("apple", "greet")
	src.CreateMethod("apple", "greet")
	body, _ := table.Get("greet")
	src.PutMethod("apple", "greet", body)
	exported, _ := src.Export("apple")

	dst := New(WithMethodTable(table))
	if !dst.Import("apple", exported) {
		t.Fatalf("expected import")
	}
	if dst.Import("apple", exported) || dst.Import("pear", nil) {
		t.Fatalf("expected resident id and nil record to fail")
	}
	if got, _ := dst.GetValue("apple", "color"); !slices.Equal(got, []string{"red"}) {
		t.Fatalf("unexpected value %v", got)
	}
	if target, _ := dst.GetReference("apple", "kind"); target != "fruit" {
		t.Fatalf("unexpected reference %q", target)
	}
	dst.ExecMethod("apple", "greet")
	if len(rec.seen) != 1 {
		t.Fatalf("expected the resolved body to run")
	}
	again, _ := dst.Export("apple")
	if !slices.Equal(again.Keys(), exported.Keys()) {
		t.Fatalf("expected export to round trip, got %v", again.Keys())
	}
}

func TestImportUnresolvedBody(t *testing.T) {
	log := &eventLog{}
	r := New(WithLogger(log))
	r.Import("apple", Record{
		"slots":        {"greet"},
		"greet,method": {"missing"},
	})
	r.ExecMethod("apple", "greet")
	events := log.kind(EventMethod)
	if len(events) != 1 || !errors.Is(events[0].Err, ErrUnresolvedBody) {
		t.Fatalf("expected ErrUnresolvedBody, got %+v", events)
	}
	rec, _ := r.Export("apple")
	if !slices.Equal(rec["greet,method"], []string{"missing"}) {
		t.Fatalf("expected the unresolved name to survive export, got %v", rec["greet,method"])
	}
}

func TestImportFrameset(t *testing.T) {
	r := New()
	r.CreateFrame("apple")
	if !r.Import("fruit", Record{"set": {"apple", "apple", "fruit", "pear"}}) {
		t.Fatalf("expected import")
	}
	if !r.IsFrameset("fruit") {
		t.Fatalf("expected a frameset")
	}
	if got := r.Frameset("fruit").Members(); !slices.Equal(got, []string{"apple", "pear"}) {
		t.Fatalf("unexpected members %v", got)
	}
	rec, _ := r.Export("fruit")
	if !slices.Equal(rec.Members(), []string{"apple", "pear"}) {
		t.Fatalf("unexpected exported members %v", rec.Members())
	}
}

func TestImportLogsMalformedRecords(t *testing.T) {
	log := &eventLog{}
	r := New(WithLogger(log))
	r.Import("apple", Record{
		"slots":        {"color"},
		"color,method": {},
		"color,value":  {"red"},
		"color,bogus":  {},
		"nocomma":      {"x"},
	})
	if len(log.kind(EventAnomaly)) != 3 {
		t.Fatalf("expected three anomalies, got %+v", log.kind(EventAnomaly))
	}
	if !r.MethodExists("apple", "color") || r.ValueExists("apple", "color") {
		t.Fatalf("expected the first primary facet in key order to win")
	}
}

func TestSplitFacetKey(t *testing.T) {
	cases := []struct {
		key   string
		slot  string
		facet string
		ok    bool
	}{
		{"color,value", "color", "value", true},
		{"a,b,ref", "a,b", "ref", true},
		{",value", "", "", false},
		{"color,", "", "", false},
		{"color", "", "", false},
	}
	for _, tc := range cases {
		slotName, facet, ok := splitFacetKey(tc.key)
		if slotName != tc.slot || facet != tc.facet || ok != tc.ok {
			t.Fatalf("%q: got %q %q %v", tc.key, slotName, facet, ok)
		}
	}
}
