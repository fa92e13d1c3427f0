package classifier

import "github.com/anglisano/nametag/ner/model"

// LabelEntry is what one label byte means: a BILOU state plus the
// entity type it carries (ignored for Outside).
type LabelEntry struct {
	BILOU  model.BILOU
	Entity model.EntityType
}

// LabelScheme decodes a label-byte sequence into entity spans by
// walking Begin/Inside/Last/Outside/Unit runs. It is the simplest
// BILOUDecoder that can drive pipeline.Tag in tests and local runs; a
// trained model's real label scheme would be loaded alongside it.
type LabelScheme struct {
	entries  map[byte]LabelEntry
	entities *model.EntityMap
}

// NewLabelScheme builds a scheme from a label-byte-to-meaning table and
// the entity registry used to resolve entity type names.
func NewLabelScheme(entries map[byte]LabelEntry, entities *model.EntityMap) *LabelScheme {
	return &LabelScheme{entries: entries, entities: entities}
}

func (s *LabelScheme) Decode(sent *model.Sentence, labels []byte) []model.NamedEntity {
	var result []model.NamedEntity
	start := -1
	var current model.EntityType = model.EntityTypeUnknown

	flush := func(end int) {
		if current != model.EntityTypeUnknown {
			result = append(result, model.NamedEntity{
				Start:  start,
				Length: end - start,
				Type:   s.entities.Name(current),
			})
			current = model.EntityTypeUnknown
		}
	}

	for i, lbl := range labels {
		entry, ok := s.entries[lbl]
		if !ok || entry.BILOU == model.O {
			flush(i)
			continue
		}
		switch entry.BILOU {
		case model.U:
			flush(i)
			result = append(result, model.NamedEntity{Start: i, Length: 1, Type: s.entities.Name(entry.Entity)})
		case model.B:
			flush(i)
			start, current = i, entry.Entity
		case model.L:
			if current != model.EntityTypeUnknown {
				flush(i + 1)
			} else {
				flush(i)
			}
		case model.I:
			// span continues; nothing to emit yet
		}
	}
	flush(len(labels))
	return result
}
