package features

import (
	"strings"

	"github.com/anglisano/nametag/ner/model"
)

// Form, Lemma, RawLemma and Tag are the trivial lookup processors of
// spec.md §4.3: at every token they emit the interned feature id of one
// morphological field in the window, plus the reserved empty-string
// feature at the two virtual border regions.

type Form struct{ Base }

func (p *Form) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		ApplyInWindow(sent, i, p.Lookup(w.Form, total), p.Window)
	}
	ApplyOuterWordsInWindow(sent, p.Lookup("", total), p.Window)
}

type Lemma struct{ Base }

func (p *Lemma) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		ApplyInWindow(sent, i, p.Lookup(w.LemmaID, total), p.Window)
	}
	ApplyOuterWordsInWindow(sent, p.Lookup("", total), p.Window)
}

type RawLemma struct{ Base }

func (p *RawLemma) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		ApplyInWindow(sent, i, p.Lookup(w.RawLemma, total), p.Window)
	}
	ApplyOuterWordsInWindow(sent, p.Lookup("", total), p.Window)
}

type Tag struct{ Base }

func (p *Tag) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		ApplyInWindow(sent, i, p.Lookup(w.Tag, total), p.Window)
	}
	ApplyOuterWordsInWindow(sent, p.Lookup("", total), p.Window)
}

// CzechLemmaTerm scans LemmaComments for every occurrence of the
// "_;" marker convention and emits the feature for the character right
// after it — the Czech lemma semantic class.
type CzechLemmaTerm struct{ Base }

func (p *CzechLemmaTerm) ProcessSentence(sent *model.Sentence, total *int32, buffer *strings.Builder) {
	for i, w := range sent.Words {
		comments := w.LemmaComments
		for pos := 0; pos+2 < len(comments); pos++ {
			if comments[pos] == '_' && comments[pos+1] == ';' {
				buffer.Reset()
				buffer.WriteByte(comments[pos+2])
				ApplyInWindow(sent, i, p.Lookup(buffer.String(), total), p.Window)
			}
		}
	}
}
