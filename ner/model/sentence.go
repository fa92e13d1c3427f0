package model

import "github.com/anglisano/nametag/textstore"

// Word holds the read-only per-token fields produced by the tokenizer and
// morphological analyzer — both out of scope here, only their output is
// consumed.
type Word struct {
	Form          string `json:"form"`
	RawLemma      string `json:"raw_lemma"`
	LemmaID       string `json:"lemma_id"`
	LemmaComments string `json:"lemma_comments"`
	Tag           string `json:"tag"`
}

// PreviousStage is the BILOU+entity label a prior decoding stage assigned
// to a token, consumed (read-only) by the PreviousStage processor.
type PreviousStage struct {
	BILOU  BILOU
	Entity EntityType
}

// BILOUProbability is one of the five local-probability slots for a
// token: the predicted entity type at that BILOU state and its
// probability mass.
type BILOUProbability struct {
	Probability float64
	Entity      EntityType
}

// LocalProbabilities holds the five BILOU-state local probabilities for
// one token, written only by URLEmailDetector.
type LocalProbabilities struct {
	BILOU [NumBILOU]BILOUProbability
}

// Probabilities is the per-token probability slot of a Sentence.
type Probabilities struct {
	Local       LocalProbabilities
	LocalFilled bool
}

// Sentence is the shared data type every feature processor reads from and
// writes to. Tokens and their morphological fields are read-only during
// feature emission; Features is grown by processors; PreviousStage is
// read only by PreviousStage; Probabilities is written only by
// URLEmailDetector.
type Sentence struct {
	Words         []Word
	Features      [][]int32
	PreviousStage []PreviousStage
	Probabilities []Probabilities
}

// NewSentence allocates a Sentence of the given size with all per-token
// accumulators zeroed/unknown.
func NewSentence(words []Word) *Sentence {
	size := len(words)
	sent := &Sentence{
		Words:         words,
		Features:      make([][]int32, size),
		PreviousStage: make([]PreviousStage, size),
		Probabilities: make([]Probabilities, size),
	}
	for i := range sent.PreviousStage {
		sent.PreviousStage[i] = PreviousStage{BILOU: BILOUUnknown, Entity: EntityTypeUnknown}
	}
	return sent
}

// Size is the token count.
func (s *Sentence) Size() int {
	return len(s.Words)
}

// DecodeSentence builds a Sentence from already-decoded Words, interning
// each word's Tag through the process-wide textstore pool the way the
// teacher's tagger.go interns its POS tags: a closed, repeating
// vocabulary across a worker's whole batch. Form/RawLemma/LemmaID/
// LemmaComments are left untouched because the pool lower-cases on
// intern (string_store.go's GetPointer) and several processors need
// exact case: Gazetteers/BrownClusters match raw_lemma case-sensitively,
// *Capitalization reads the original casing directly.
func DecodeSentence(words []Word) *Sentence {
	pool := textstore.Global()
	interned := make([]Word, len(words))
	for i, w := range words {
		interned[i] = w
		interned[i].Tag = *pool.GetPointer(w.Tag)
	}
	return NewSentence(interned)
}
