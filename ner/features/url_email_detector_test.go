package features

import (
	"testing"

	"github.com/anglisano/nametag/ner/model"
)

func TestURLEmailDetectorParseValidatesArgCount(t *testing.T) {
	p := &URLEmailDetector{}
	entities := model.NewEntityMap()
	if err := p.Parse(0, []string{"url"}, entities, new(int32)); err == nil {
		t.Fatal("expected an error for only one argument, got nil")
	}
	entities = model.NewEntityMap()
	if err := p.Parse(0, []string{"url", ""}, entities, new(int32)); err == nil {
		t.Fatal("expected an error for an empty entity name, got nil")
	}
	entities = model.NewEntityMap()
	if err := p.Parse(0, []string{"url", "email"}, entities, new(int32)); err != nil {
		t.Fatalf("expected valid args to parse cleanly, got %v", err)
	}
}

func TestURLEmailDetectorSeedsUnitProbabilityForDetectedURL(t *testing.T) {
	p := &URLEmailDetector{}
	entities := model.NewEntityMap()
	if err := p.Parse(0, []string{"url", "email"}, entities, new(int32)); err != nil {
		t.Fatal(err)
	}

	sent := model.NewSentence([]model.Word{{Form: "http://example.com"}, {Form: "hello"}})
	var total int32
	p.ProcessSentence(sent, &total, nil)

	if !sent.Probabilities[0].LocalFilled {
		t.Fatal("expected the URL token to be marked LocalFilled")
	}
	got := sent.Probabilities[0].Local.BILOU[model.U]
	if got.Probability != 1.0 || got.Entity != p.urlType {
		t.Fatalf("got %+v, want unit probability 1.0 with the url entity", got)
	}
	for b := 0; b < model.NumBILOU; b++ {
		if b == int(model.U) {
			continue
		}
		if prob := sent.Probabilities[0].Local.BILOU[b]; prob.Probability != 0 {
			t.Fatalf("expected slot %d to be zeroed, got %+v", b, prob)
		}
	}

	if sent.Probabilities[1].LocalFilled {
		t.Fatal("non-URL token should not be touched")
	}
}

func TestURLEmailDetectorSkipsAlreadyFilledTokens(t *testing.T) {
	p := &URLEmailDetector{}
	entities := model.NewEntityMap()
	if err := p.Parse(0, []string{"url", "email"}, entities, new(int32)); err != nil {
		t.Fatal(err)
	}

	sent := model.NewSentence([]model.Word{{Form: "http://example.com"}})
	sent.Probabilities[0].LocalFilled = true
	var total int32
	p.ProcessSentence(sent, &total, nil)

	got := sent.Probabilities[0].Local.BILOU[model.U]
	if got.Probability != 0 {
		t.Fatalf("expected the already-filled token to be left alone, got %+v", got)
	}
}
