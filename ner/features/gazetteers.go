package features

import (
	"strings"

	"github.com/anglisano/nametag/ner/model"
	"github.com/anglisano/nametag/utils"
)

// Gazetteer phrase roles, encoded as bands within the feature space a
// gazetteer file reserves: G marks membership regardless of position,
// U a one-word phrase, B/L/I the begin/last/inside words of a longer
// match.
const (
	gazG int32 = 0
	gazU int32 = 1
	gazB int32 = 2
	gazL int32 = 3
	gazI int32 = 4
)

type gazetteerInfo struct {
	features       []int32
	prefixOfLonger bool
}

// Gazetteers matches longest runs of RawLemma tokens against one or more
// whitespace-separated phrase lists, per spec.md §4.8/§9. Base's
// interned table is reused to map a space-joined phrase prefix to an
// index into infos, the same dual-purpose-table trick BrownClusters
// uses for form-to-cluster lookups.
type Gazetteers struct {
	Base
	infos []gazetteerInfo
}

func (p *Gazetteers) Parse(window int32, args []string, entities *model.EntityMap, total *int32) error {
	if err := p.Base.Parse(window, args, entities, total); err != nil {
		return err
	}
	p.infos = nil
	for _, path := range args {
		if err := p.parseFile(path, total); err != nil {
			return err
		}
	}
	return nil
}

func (p *Gazetteers) parseFile(path string, total *int32) error {
	lines, err := utils.ReadList(path)
	if err != nil {
		return err
	}
	fileFeature := *total + p.Window
	longest := 0
	for _, line := range lines {
		tokens := splitNonEmpty(line)
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) > longest {
			longest = len(tokens)
		}
		var phrase strings.Builder
		for idx, tok := range tokens {
			if idx > 0 {
				phrase.WriteByte(' ')
			}
			phrase.WriteString(tok)
			key := phrase.String()
			index, ok := p.Get(key)
			if !ok {
				index = int32(len(p.infos))
				p.infos = append(p.infos, gazetteerInfo{})
				p.Put(key, index)
			}
			info := &p.infos[index]
			if idx+1 < len(tokens) {
				info.prefixOfLonger = true
			} else {
				info.features = appendUnique(info.features, fileFeature)
			}
		}
	}
	var slots int32
	switch {
	case longest == 0:
		slots = 0
	case longest == 1:
		slots = gazU + 1
	case longest == 2:
		slots = gazL + 1
	default:
		slots = gazI + 1
	}
	*total += (2*p.Window + 1) * slots
	return nil
}

func splitNonEmpty(s string) []string {
	fields := strings.Split(s, " ")
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func appendUnique(fs []int32, f int32) []int32 {
	for _, existing := range fs {
		if existing == f {
			return fs
		}
	}
	return append(fs, f)
}

func (p *Gazetteers) Load(dec *model.Decoder) error {
	if err := p.Base.Load(dec); err != nil {
		return err
	}
	n, err := dec.Next4B()
	if err != nil {
		return err
	}
	p.infos = make([]gazetteerInfo, n)
	for i := range p.infos {
		prefix, err := dec.Next1B()
		if err != nil {
			return err
		}
		p.infos[i].prefixOfLonger = prefix != 0
		fn, err := dec.Next4B()
		if err != nil {
			return err
		}
		p.infos[i].features = make([]int32, fn)
		for j := range p.infos[i].features {
			v, err := dec.Next4B()
			if err != nil {
				return err
			}
			p.infos[i].features[j] = v
		}
	}
	return nil
}

func (p *Gazetteers) Save(enc *model.Encoder) {
	p.Base.Save(enc)
	enc.Add4B(int32(len(p.infos)))
	for _, info := range p.infos {
		if info.prefixOfLonger {
			enc.Add1B(1)
		} else {
			enc.Add1B(0)
		}
		enc.Add4B(int32(len(info.features)))
		for _, f := range info.features {
			enc.Add4B(f)
		}
	}
}

func (p *Gazetteers) emit(sent *model.Sentence, feature int32, i int, role int32) {
	band := 2*p.Window + 1
	ApplyInWindow(sent, i, feature+gazG*band, p.Window)
	ApplyInWindow(sent, i, feature+role*band, p.Window)
}

func (p *Gazetteers) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		index, ok := p.Get(w.RawLemma)
		if !ok {
			continue
		}
		info := p.infos[index]
		for _, f := range info.features {
			p.emit(sent, f, i, gazU)
		}
		j := i
		cur := info
		var buffer strings.Builder
		buffer.WriteString(w.RawLemma)
		for cur.prefixOfLonger {
			j++
			if j >= sent.Size() {
				break
			}
			buffer.WriteByte(' ')
			buffer.WriteString(sent.Words[j].RawLemma)
			nextIndex, ok := p.Get(buffer.String())
			if !ok {
				break
			}
			cur = p.infos[nextIndex]
			for _, f := range cur.features {
				for g := i; g <= j; g++ {
					role := gazI
					if g == i {
						role = gazB
					} else if g == j {
						role = gazL
					}
					p.emit(sent, f, g, role)
				}
			}
		}
	}
}
