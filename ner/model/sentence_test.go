package model

import "testing"

func TestDecodeSentenceInternsTagButPreservesOtherFieldCasing(t *testing.T) {
	words := []Word{
		{Form: "Prague", RawLemma: "Prague", LemmaID: "Prague", LemmaComments: "_;Q", Tag: "NNP"},
		{Form: "IS", RawLemma: "IS", LemmaID: "be", LemmaComments: "", Tag: "NNP"},
	}
	sent := DecodeSentence(words)

	if sent.Words[0].Form != "Prague" || sent.Words[0].RawLemma != "Prague" {
		t.Fatalf("Form/RawLemma casing changed: got %+v", sent.Words[0])
	}
	if sent.Words[1].Form != "IS" {
		t.Fatalf("Form casing changed: got %q, want %q", sent.Words[1].Form, "IS")
	}
	if sent.Words[0].Tag != "nnp" || sent.Words[1].Tag != "nnp" {
		t.Fatalf("Tag not interned/lower-cased: got %q and %q", sent.Words[0].Tag, sent.Words[1].Tag)
	}
	if sent.Size() != 2 {
		t.Fatalf("got size %d, want 2", sent.Size())
	}
}
