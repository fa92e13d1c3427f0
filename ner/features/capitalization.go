package features

import (
	"strings"
	"unicode"

	"github.com/anglisano/nametag/ner/model"
)

// capitalizationFeatures holds the three reserved capitalization
// features shared by FormCapitalization and RawLemmaCapitalization:
// "f" (first letter uppercase), "a" (all uppercase), "m" (mixed case).
type capitalizationFeatures struct {
	firstCap, allCap, mixedCap int32
}

func reserveCapitalizationFeatures(b *Base, total *int32) capitalizationFeatures {
	return capitalizationFeatures{
		firstCap: b.Lookup("f", total),
		allCap:   b.Lookup("a", total),
		mixedCap: b.Lookup("m", total),
	}
}

// applyCapitalization decodes s as UTF-8 codepoints, classifying them by
// Unicode general category (Lu|Lt vs Ll), and emits the reserved
// capitalization features at token i per spec.md §4.4.
func applyCapitalization(sent *model.Sentence, i int, s string, feats capitalizationFeatures, window int32) {
	wasUpper, wasLower := false, false
	first := true
	for _, r := range s {
		if unicode.Is(unicode.Lu, r) || unicode.Is(unicode.Lt, r) {
			wasUpper = true
		}
		if unicode.Is(unicode.Ll, r) {
			wasLower = true
		}
		if first && wasUpper {
			ApplyInWindow(sent, i, feats.firstCap, window)
		}
		first = false
	}
	if wasUpper && !wasLower {
		ApplyInWindow(sent, i, feats.allCap, window)
	}
	if wasUpper && wasLower {
		ApplyInWindow(sent, i, feats.mixedCap, window)
	}
}

// FormCapitalization classifies each token's Form by capitalization.
type FormCapitalization struct{ Base }

func (p *FormCapitalization) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	feats := reserveCapitalizationFeatures(&p.Base, total)
	for i, w := range sent.Words {
		applyCapitalization(sent, i, w.Form, feats, p.Window)
	}
}

// RawLemmaCapitalization classifies each token's RawLemma by
// capitalization.
type RawLemmaCapitalization struct{ Base }

func (p *RawLemmaCapitalization) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	feats := reserveCapitalizationFeatures(&p.Base, total)
	for i, w := range sent.Words {
		applyCapitalization(sent, i, w.RawLemma, feats, p.Window)
	}
}
