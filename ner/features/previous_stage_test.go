package features

import (
	"strings"
	"testing"

	"github.com/anglisano/nametag/ner/model"
)

func TestPreviousStageIgnoresUnknownLabels(t *testing.T) {
	p := &PreviousStage{}
	_ = p.Parse(2, nil, nil, nil)
	var total int32
	var buf strings.Builder

	sent := model.NewSentence([]model.Word{{}, {}})
	p.ProcessSentence(sent, &total, &buf)

	for i, fs := range sent.Features {
		if len(fs) != 0 {
			t.Fatalf("token %d: expected no features for an unknown previous-stage label, got %v", i, fs)
		}
	}
}

func TestPreviousStageOnlyEmitsForwardOfItsOwnPosition(t *testing.T) {
	p := &PreviousStage{}
	_ = p.Parse(2, nil, nil, nil)
	var total int32
	var buf strings.Builder

	sent := model.NewSentence([]model.Word{{}, {}, {}, {}, {}})
	sent.PreviousStage[1] = model.PreviousStage{BILOU: model.B, Entity: model.EntityType(0)}
	p.ProcessSentence(sent, &total, &buf)

	// window=2, forward-only range is [i+1, i+window] = [2, 3].
	if len(sent.Features[0]) != 0 {
		t.Fatalf("token 0 (before the label): got %v, want none", sent.Features[0])
	}
	if len(sent.Features[1]) != 0 {
		t.Fatalf("token 1 (at the label itself): got %v, want none", sent.Features[1])
	}
	if len(sent.Features[2]) != 1 || len(sent.Features[3]) != 1 {
		t.Fatalf("tokens 2,3: got %v %v, want one feature each", sent.Features[2], sent.Features[3])
	}
	if len(sent.Features[4]) != 0 {
		t.Fatalf("token 4 (past the window): got %v, want none", sent.Features[4])
	}
}

func TestAppendEncodedHandlesSignAndZero(t *testing.T) {
	var buf strings.Builder
	appendEncoded(&buf, 0)
	if buf.String() != "0" {
		t.Fatalf("got %q, want %q", buf.String(), "0")
	}

	buf.Reset()
	appendEncoded(&buf, -18)
	if !strings.HasPrefix(buf.String(), "-") {
		t.Fatalf("got %q, want a leading '-'", buf.String())
	}
}
