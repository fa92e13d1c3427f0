package features

import (
	"strings"

	"github.com/anglisano/nametag/ner/model"
)

// Processor is the sealed contract every feature processor variant
// implements: parse textual training configuration, binary load/save,
// and the two sentence-level passes (feature emission, entity
// post-processing). Variants embed Base and override only what they
// need; Go's method promotion plays the role of the base class's
// virtual dispatch with default no-op implementations.
type Processor interface {
	Parse(window int32, args []string, entities *model.EntityMap, totalFeatures *int32) error
	Load(dec *model.Decoder) error
	Save(enc *model.Encoder)
	ProcessSentence(sent *model.Sentence, totalFeatures *int32, buffer *strings.Builder)
	ProcessEntities(sent *model.Sentence, entities *[]model.NamedEntity, buffer *[]model.NamedEntity)
}

// Base is the abstract feature_processor state of spec.md §3: the window
// half-width and an interned string table. Most variants use the table
// through Lookup as a generic string-to-feature-id cache; BrownClusters
// and Gazetteers instead use Get/Put directly, storing their own
// form-to-cluster or phrase-to-info indices in the very same table, the
// way the original C++ reuses its single `map` member for both purposes.
type Base struct {
	Window int32
	index  map[string]int32
	order  []string // insertion order, for byte-identical save/load round trips
}

// Parse stores the window and resets the interned table. Variants that
// override Parse call this first, exactly like feature_processor::parse
// being invoked as the first statement of every C++ override.
func (b *Base) Parse(window int32, _ []string, _ *model.EntityMap, _ *int32) error {
	b.Window = window
	b.index = make(map[string]int32)
	b.order = nil
	return nil
}

func (b *Base) Load(dec *model.Decoder) error {
	w, err := dec.Next4B()
	if err != nil {
		return err
	}
	n, err := dec.Next4B()
	if err != nil {
		return err
	}
	b.Window = w
	b.index = make(map[string]int32, n)
	b.order = make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		key, err := dec.NextString()
		if err != nil {
			return err
		}
		val, err := dec.Next4B()
		if err != nil {
			return err
		}
		b.index[key] = val
		b.order = append(b.order, key)
	}
	return nil
}

func (b *Base) Save(enc *model.Encoder) {
	enc.Add4B(b.Window)
	enc.Add4B(int32(len(b.order)))
	for _, key := range b.order {
		enc.AddString(key)
		enc.Add4B(b.index[key])
	}
}

func (b *Base) ProcessSentence(*model.Sentence, *int32, *strings.Builder) {}

func (b *Base) ProcessEntities(*model.Sentence, *[]model.NamedEntity, *[]model.NamedEntity) {}

// Get looks up a raw entry, whatever it holds for this variant.
func (b *Base) Get(key string) (int32, bool) {
	v, ok := b.index[key]
	return v, ok
}

// Put inserts or overwrites a raw entry, tracking first-insertion order.
func (b *Base) Put(key string, v int32) {
	if _, exists := b.index[key]; !exists {
		b.order = append(b.order, key)
	}
	b.index[key] = v
}

// Len is the number of interned entries.
func (b *Base) Len() int {
	return len(b.order)
}

// Lookup is the generic string-to-feature-id interning capability of
// spec.md §1/§4.2: an empty key always returns the Window sentinel
// without allocating; a new key reserves 2*Window+1 consecutive ids from
// *totalFeatures and returns the center; a known key returns its
// previously allocated center.
func (b *Base) Lookup(key string, totalFeatures *int32) int32 {
	if key == "" {
		return b.Window
	}
	if id, ok := b.index[key]; ok {
		return id
	}
	id := *totalFeatures + b.Window
	*totalFeatures += 2*b.Window + 1
	b.Put(key, id)
	return id
}
