package features

import "github.com/anglisano/nametag/ner/model"

// Unknown is the sentinel feature id meaning "no feature to emit here".
// None of this package's lookups ever produce it, but the emission
// primitives still guard against it, matching the original contract.
const Unknown int32 = -1

// ApplyInRange clips [i+left, i+right] to [0, size) and, for every
// position p in the clipped range, appends f+(p-i) to sentence.Features[p].
// f is always the center of a reserved 2w+1 band, so every emitted id
// stays inside [f-w, f+w]. A no-op if f is Unknown.
func ApplyInRange(sent *model.Sentence, i int, f int32, left, right int) {
	if f == Unknown {
		return
	}
	size := sent.Size()
	start := i + left
	if start < 0 {
		start = 0
	}
	end := i + right + 1
	if end > size {
		end = size
	}
	for p := start; p < end; p++ {
		sent.Features[p] = append(sent.Features[p], f+int32(p-i))
	}
}

// ApplyInWindow is ApplyInRange over the symmetric [-window, window] range.
func ApplyInWindow(sent *model.Sentence, i int, f int32, window int32) {
	w := int(window)
	ApplyInRange(sent, i, f, -w, w)
}

// ApplyOuterWordsInWindow emits f at the virtual positions -1..-window and
// size..size+window-1. ApplyInWindow's own clipping makes each of those
// calls touch only the real tokens near that edge.
func ApplyOuterWordsInWindow(sent *model.Sentence, f int32, window int32) {
	w := int(window)
	size := sent.Size()
	for d := 1; d <= w; d++ {
		ApplyInWindow(sent, -d, f, window)
		ApplyInWindow(sent, size-1+d, f, window)
	}
}
