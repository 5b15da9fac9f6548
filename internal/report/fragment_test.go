package report

import (
	"encoding/json"
	"testing"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestMerge_ShallowPerKey(t *testing.T) {
	cur := Fragment{"summary": raw(`{"text":"old"}`), "career": raw(`{"list":[]}`)}
	in := Fragment{"summary": raw(`{"text":"new"}`), "growth": raw(`{}`)}

	out := Merge(cur, in)

	if string(out["summary"]) != `{"text":"new"}` {
		t.Errorf("expected incoming summary to win, got %s", out["summary"])
	}
	if _, ok := out["career"]; !ok {
		t.Error("expected career to survive merge")
	}
	if _, ok := out["growth"]; !ok {
		t.Error("expected growth to be added")
	}
	// inputs untouched
	if string(cur["summary"]) != `{"text":"old"}` {
		t.Error("Merge mutated its input")
	}
}

func TestMerge_NilInputs(t *testing.T) {
	out := Merge(nil, Fragment{"traits": raw(`{}`)})
	if len(out) != 1 {
		t.Errorf("expected 1 key, got %d", len(out))
	}
	out = Merge(Fragment{"traits": raw(`{}`)}, nil)
	if len(out) != 1 {
		t.Errorf("expected 1 key, got %d", len(out))
	}
	if out := Merge(nil, nil); len(out) != 0 {
		t.Errorf("expected empty fragment, got %d keys", len(out))
	}
}

func TestMissing(t *testing.T) {
	f := Fragment{"summary": raw(`{}`)}
	missing := Missing([]string{"summary", "career", "growth"}, f)
	if len(missing) != 2 || missing[0] != "career" || missing[1] != "growth" {
		t.Errorf("expected [career growth], got %v", missing)
	}
	if missing := Missing([]string{"summary"}, f); missing != nil {
		t.Errorf("expected nil, got %v", missing)
	}
}

func TestSubset(t *testing.T) {
	f := Fragment{"summary": raw(`{}`), "career": raw(`{}`)}
	sub, complete := Subset(f, []string{"summary"})
	if !complete {
		t.Error("expected complete subset")
	}
	if len(sub) != 1 {
		t.Errorf("expected 1 key, got %d", len(sub))
	}
	if _, incomplete := Subset(f, []string{"summary", "growth"}); incomplete {
		t.Error("expected incomplete subset when a module is absent")
	}
}

func TestFilterModules(t *testing.T) {
	got := FilterModules([]string{"career", "unknown", "career", "traits"})
	want := []string{"career", "traits"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCache_MergeAndLookup(t *testing.T) {
	c := NewCache()
	key := CacheKey{MBTI: "INTJ", MainType: "2", Subtype: "1", Lang: "zh"}

	c.Merge(key, Fragment{"summary": raw(`{"text":"a"}`)})
	c.Merge(key, Fragment{"career": raw(`{}`)})

	got, ok := c.Lookup(key, []string{"summary", "career"})
	if !ok {
		t.Fatal("expected cache hit covering both modules")
	}
	if len(got) != 2 {
		t.Errorf("expected 2 modules, got %d", len(got))
	}

	if _, ok := c.Lookup(key, []string{"growth"}); ok {
		t.Error("expected miss for module never cached")
	}

	other := CacheKey{MBTI: "INTJ", MainType: "2", Subtype: "1", Lang: "en"}
	if _, ok := c.Lookup(other, []string{"summary"}); ok {
		t.Error("expected language switch to miss")
	}
}

func TestKeyFor_NormalizesMBTI(t *testing.T) {
	p := &GenerateParams{MBTI: "intj-a", MainType: "2", Subtype: "1", Lang: "zh"}
	key := KeyFor(p)
	if key.MBTI != "INTJ" {
		t.Errorf("expected normalized INTJ, got %s", key.MBTI)
	}
}
