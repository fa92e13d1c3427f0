package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anglisano/nametag/ner/model"
	"github.com/anglisano/nametag/utils"
)

// wholeCluster is the sentinel substring length meaning "the whole
// cluster bit string", always included ahead of any explicit prefix
// length requested via Parse's args.
const wholeCluster = -1

// BrownClusters looks up each token's RawLemma in a cluster file of
// "<bits>\t<form>" lines and emits one feature per requested prefix
// length of that token's cluster bit string, per spec.md §4.7/§9.
// Forms map to cluster indices through Base's interned table (reused,
// not Lookup's feature-id semantics); distinct prefixes of the bit
// strings are interned separately in a file-local table so identical
// prefixes across different clusters share one feature id.
type BrownClusters struct {
	Base
	clusters [][]int32
}

func (p *BrownClusters) Parse(window int32, args []string, entities *model.EntityMap, total *int32) error {
	if err := p.Base.Parse(window, args, entities, total); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("BrownClusters requires a cluster file argument")
	}
	substrings := []int{wholeCluster}
	for _, arg := range args[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return fmt.Errorf("BrownClusters: invalid prefix length %q", arg)
		}
		substrings = append(substrings, n)
	}

	lines, err := utils.ReadList(args[0])
	if err != nil {
		return err
	}

	prefixesMap := make(map[string]int32)
	p.clusters = nil
	for _, line := range lines {
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			return fmt.Errorf("BrownClusters: malformed cluster line %q", line)
		}
		clusterBits, form := line[:tab], line[tab+1:]
		if _, exists := p.Get(form); exists {
			return fmt.Errorf("BrownClusters: duplicate form %q in cluster file", form)
		}
		index := int32(len(p.clusters))
		p.Put(form, index)
		p.clusters = append(p.clusters, nil)

		for _, sub := range substrings {
			if sub != wholeCluster && sub >= len(clusterBits) {
				continue
			}
			var key string
			if sub == wholeCluster {
				key = clusterBits
			} else {
				key = clusterBits[:sub]
			}
			id, ok := prefixesMap[key]
			if !ok {
				id = *total + (2*p.Window+1)*int32(len(prefixesMap)) + p.Window
				prefixesMap[key] = id
			}
			p.clusters[index] = append(p.clusters[index], id)
		}
	}
	*total += (2*p.Window + 1) * int32(len(prefixesMap))
	return nil
}

func (p *BrownClusters) Load(dec *model.Decoder) error {
	if err := p.Base.Load(dec); err != nil {
		return err
	}
	n, err := dec.Next4B()
	if err != nil {
		return err
	}
	p.clusters = make([][]int32, n)
	for i := range p.clusters {
		fn, err := dec.Next4B()
		if err != nil {
			return err
		}
		p.clusters[i] = make([]int32, fn)
		for j := range p.clusters[i] {
			v, err := dec.Next4B()
			if err != nil {
				return err
			}
			p.clusters[i][j] = v
		}
	}
	return nil
}

func (p *BrownClusters) Save(enc *model.Encoder) {
	p.Base.Save(enc)
	enc.Add4B(int32(len(p.clusters)))
	for _, cluster := range p.clusters {
		enc.Add4B(int32(len(cluster)))
		for _, f := range cluster {
			enc.Add4B(f)
		}
	}
}

func (p *BrownClusters) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		index, ok := p.Get(w.RawLemma)
		if !ok {
			continue
		}
		for _, f := range p.clusters[index] {
			ApplyInWindow(sent, i, f, p.Window)
		}
	}
}
