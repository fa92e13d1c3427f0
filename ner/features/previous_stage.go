package features

import (
	"strings"

	"github.com/anglisano/nametag/ner/model"
)

// PreviousStage exposes an earlier tagging pass's BILOU/entity decision
// as a feature of the current one, per spec.md §4.6. It only ever looks
// forward: a position emits into [i+1, i+window], never at or before i,
// since the tagger producing the previous stage's decision for i already
// had access to i itself.
type PreviousStage struct{ Base }

const hexDigits = "0123456789abcdef"

// appendEncoded hex-encodes v (sign-prefixed if negative, nibbles
// low-to-high) into buf, mirroring the original append_encoded helper.
func appendEncoded(buf *strings.Builder, v int32) {
	if v < 0 {
		buf.WriteByte('-')
		v = -v
	}
	if v == 0 {
		buf.WriteByte('0')
		return
	}
	var nibbles []byte
	for v != 0 {
		nibbles = append(nibbles, hexDigits[v&0xF])
		v >>= 4
	}
	buf.Write(nibbles)
}

func (p *PreviousStage) ProcessSentence(sent *model.Sentence, total *int32, buffer *strings.Builder) {
	for i, ps := range sent.PreviousStage {
		if ps.BILOU == model.BILOUUnknown {
			continue
		}
		buffer.Reset()
		appendEncoded(buffer, int32(ps.BILOU))
		buffer.WriteByte(' ')
		appendEncoded(buffer, int32(ps.Entity))
		f := p.Lookup(buffer.String(), total)
		ApplyInRange(sent, i, f, 1, int(p.Window))
	}
}
