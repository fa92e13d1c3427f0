package model

// EntityType is the numeric id of a named-entity type, assigned by
// EntityMap during training. It is distinct from NamedEntity.Type, which
// is the short string tag used directly by CzechAddContainers.
type EntityType int32

const EntityTypeUnknown EntityType = -1

// NamedEntity spans start..start+length tokens (not bytes) and carries a
// short type tag such as "pf", "ps", "td", "tm", "ty", or a synthesized
// container type like "P"/"T".
type NamedEntity struct {
	Start  int    `json:"start"`
	Length int    `json:"length"`
	Type   string `json:"type"`
}

// End is the token index one past the entity's last token.
func (e NamedEntity) End() int {
	return e.Start + e.Length
}

// EntityMap is a growable, case-sensitive name-to-id registry. Among the
// feature processors only URLEmailDetector registers entries in it (the
// URL and email entity types); the training CLI also registers the
// descriptor's entity names. CzechAddContainers never looks an entity
// type up here, it compares NamedEntity.Type strings directly.
type EntityMap struct {
	ids   map[string]EntityType
	names []string
}

// NewEntityMap returns an empty registry.
func NewEntityMap() *EntityMap {
	return &EntityMap{ids: make(map[string]EntityType)}
}

// Parse resolves name to its EntityType. If name is unknown and create is
// true, a fresh id is allocated; otherwise EntityTypeUnknown is returned.
func (m *EntityMap) Parse(name string, create bool) (EntityType, bool) {
	if id, ok := m.ids[name]; ok {
		return id, true
	}
	if !create {
		return EntityTypeUnknown, false
	}
	id := EntityType(len(m.names))
	m.ids[name] = id
	m.names = append(m.names, name)
	return id, true
}

// Name returns the registered name for id, or "" if id is out of range.
func (m *EntityMap) Name(id EntityType) string {
	if id < 0 || int(id) >= len(m.names) {
		return ""
	}
	return m.names[id]
}

// Save writes the registry in registration order, so ids survive a
// binary round trip unchanged.
func (m *EntityMap) Save(enc *Encoder) {
	enc.Add4B(int32(len(m.names)))
	for _, name := range m.names {
		enc.AddString(name)
	}
}

// Load replaces the registry's contents with what Save wrote.
func (m *EntityMap) Load(dec *Decoder) error {
	n, err := dec.Next4B()
	if err != nil {
		return err
	}
	m.ids = make(map[string]EntityType, n)
	m.names = make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		name, err := dec.NextString()
		if err != nil {
			return err
		}
		m.ids[name] = EntityType(len(m.names))
		m.names = append(m.names, name)
	}
	return nil
}
