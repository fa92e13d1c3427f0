package features

import (
	"testing"

	"github.com/anglisano/nametag/ner/model"
)

func newTestSentence(n int) *model.Sentence {
	words := make([]model.Word, n)
	return model.NewSentence(words)
}

func TestApplyInRangeClipsToSentenceBounds(t *testing.T) {
	sent := newTestSentence(3)
	ApplyInRange(sent, 1, 10, -5, 5)

	want := [][]int32{{9}, {10}, {11}}
	for i, w := range want {
		if len(sent.Features[i]) != len(w) || sent.Features[i][0] != w[0] {
			t.Fatalf("position %d: got %v, want %v", i, sent.Features[i], w)
		}
	}
}

func TestApplyInRangeSkipsUnknown(t *testing.T) {
	sent := newTestSentence(3)
	ApplyInRange(sent, 1, Unknown, -1, 1)
	for i, fs := range sent.Features {
		if len(fs) != 0 {
			t.Fatalf("position %d: expected no features, got %v", i, fs)
		}
	}
}

func TestApplyInWindowEmitsSymmetricBand(t *testing.T) {
	sent := newTestSentence(5)
	ApplyInWindow(sent, 2, 100, 2)

	want := map[int]int32{0: 98, 1: 99, 2: 100, 3: 101, 4: 102}
	for i, f := range want {
		if len(sent.Features[i]) != 1 || sent.Features[i][0] != f {
			t.Fatalf("position %d: got %v, want [%d]", i, sent.Features[i], f)
		}
	}
}

func TestApplyOuterWordsInWindowTouchesOnlyEdgeTokens(t *testing.T) {
	sent := newTestSentence(4)
	ApplyOuterWordsInWindow(sent, 50, 2)

	// -1 contributes at real positions 0,1; -2 contributes only at 0.
	// size+0=4 contributes at 2,3; size+1=5 contributes only at 3.
	if len(sent.Features[0]) != 2 {
		t.Fatalf("position 0: got %v, want 2 entries", sent.Features[0])
	}
	if len(sent.Features[3]) != 2 {
		t.Fatalf("position 3: got %v, want 2 entries", sent.Features[3])
	}
	if len(sent.Features[1]) != 1 || len(sent.Features[2]) != 1 {
		t.Fatalf("middle positions: got %v %v, want 1 entry each", sent.Features[1], sent.Features[2])
	}
}
