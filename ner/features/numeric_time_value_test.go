package features

import (
	"strings"
	"testing"

	"github.com/anglisano/nametag/ner/model"
)

func TestNumericTimeValueClassifiesWholeNumberTokens(t *testing.T) {
	p := &NumericTimeValue{}
	_ = p.Parse(0, nil, nil, new(int32))
	var total int32
	var buf strings.Builder

	sent := model.NewSentence([]model.Word{
		{Form: "5"},     // hour, minute, day, month
		{Form: "25"},    // day, minute
		{Form: "2024"},  // year
		{Form: "12.30"}, // hour.minute form emits only the generic "time" feature
	})
	p.ProcessSentence(sent, &total, &buf)

	hour, _ := p.Get("H")
	minute, _ := p.Get("M")
	day, _ := p.Get("d")
	month, _ := p.Get("m")
	year, _ := p.Get("y")
	timeF, _ := p.Get("t")

	set0 := featureSet(sent.Features[0])
	for _, f := range []int32{hour, minute, day, month} {
		if !set0[f] {
			t.Errorf("token 0 (\"5\"): missing expected feature %d in %v", f, sent.Features[0])
		}
	}

	set1 := featureSet(sent.Features[1])
	if !set1[day] || !set1[minute] || set1[hour] || set1[month] {
		t.Errorf("token 1 (\"25\"): got %v, want day and minute only", sent.Features[1])
	}

	set2 := featureSet(sent.Features[2])
	if !set2[year] {
		t.Errorf("token 2 (\"2024\"): missing year feature in %v", sent.Features[2])
	}

	set3 := featureSet(sent.Features[3])
	if !set3[timeF] || set3[hour] {
		t.Errorf("token 3 (\"12.30\"): got %v, want time only (not hour)", sent.Features[3])
	}
}

func TestNumericTimeValueIgnoresNonDigitTokens(t *testing.T) {
	p := &NumericTimeValue{}
	_ = p.Parse(0, nil, nil, new(int32))
	var total int32
	var buf strings.Builder

	sent := model.NewSentence([]model.Word{{Form: "hello"}})
	p.ProcessSentence(sent, &total, &buf)

	if len(sent.Features[0]) != 0 {
		t.Fatalf("expected no features for a non-numeric token, got %v", sent.Features[0])
	}
}
