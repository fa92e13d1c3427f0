package features

import (
	"strings"
	"testing"

	"github.com/anglisano/nametag/ner/model"
)

func featureSet(ids []int32) map[int32]bool {
	set := make(map[int32]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func TestFormCapitalizationClassifiesCases(t *testing.T) {
	p := &FormCapitalization{}
	_ = p.Parse(0, nil, nil, nil)
	var total int32
	var buf strings.Builder

	sent := model.NewSentence([]model.Word{
		{Form: "Smith"},  // first-cap and mixed-cap (upper followed by lower)
		{Form: "NATO"},   // all-cap (and first-cap)
		{Form: "McCoy"},  // mixed-cap (and first-cap)
		{Form: "lower"},  // neither
	})
	p.ProcessSentence(sent, &total, &buf)

	firstCap, _ := p.Get("f")
	allCap, _ := p.Get("a")
	mixedCap, _ := p.Get("m")

	cases := []struct {
		idx              int
		wantFirst, wantAll, wantMixed bool
	}{
		{0, true, false, true},
		{1, true, true, false},
		{2, true, false, true},
		{3, false, false, false},
	}

	for _, c := range cases {
		set := featureSet(sent.Features[c.idx])
		if got := set[firstCap]; got != c.wantFirst {
			t.Errorf("token %d: first-cap got %v, want %v", c.idx, got, c.wantFirst)
		}
		if got := set[allCap]; got != c.wantAll {
			t.Errorf("token %d: all-cap got %v, want %v", c.idx, got, c.wantAll)
		}
		if got := set[mixedCap]; got != c.wantMixed {
			t.Errorf("token %d: mixed-cap got %v, want %v", c.idx, got, c.wantMixed)
		}
	}
}
