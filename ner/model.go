// Package ner wires the model.EntityMap and the feature processors of
// ner/features together into the registered pipeline spec.md §6
// describes as a "model": an ordered processor list, the running
// feature-id counter, and the entity registry, persisted as one binary
// file.
package ner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anglisano/nametag/ner/features"
	"github.com/anglisano/nametag/ner/model"
)

// Model is the trained (or freshly built) feature-extraction pipeline:
// an ordered list of processors sharing one monotonically growing
// feature-id space and one entity registry.
type Model struct {
	Processors    []features.Processor
	Names         []string
	TotalFeatures int32
	Entities      *model.EntityMap
}

// NewModel returns an empty model ready to have processors added via
// AddProcessor, or to be filled in by Load.
func NewModel() *Model {
	return &Model{Entities: model.NewEntityMap()}
}

// AddProcessor parses one training-configuration line of the form
// "<ProcessorName> <window> <args...>" (spec.md §6), constructs the
// named processor through the factory, and appends it to the pipeline.
// Errors carry the offending spec line for caller logging.
func (m *Model) AddProcessor(spec string) error {
	fields := strings.Fields(spec)
	if len(fields) < 2 {
		return fmt.Errorf("ner: malformed processor spec %q: need at least a name and a window", spec)
	}
	name := fields[0]
	window, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return fmt.Errorf("ner: invalid window in %q: %w", spec, err)
	}
	proc, ok := features.New(name)
	if !ok {
		return fmt.Errorf("ner: unknown feature processor %q", name)
	}
	if err := proc.Parse(int32(window), fields[2:], m.Entities, &m.TotalFeatures); err != nil {
		return fmt.Errorf("ner: parsing %q: %w", spec, err)
	}
	m.Processors = append(m.Processors, proc)
	m.Names = append(m.Names, name)
	return nil
}

// Save serializes the model per spec.md §6: total feature count, the
// entity registry, then each processor's name tag followed by its own
// base+variant state, all in registration order.
func (m *Model) Save() []byte {
	enc := model.NewEncoder()
	enc.Add4B(m.TotalFeatures)
	m.Entities.Save(enc)
	enc.Add4B(int32(len(m.Processors)))
	for i, proc := range m.Processors {
		enc.AddString(m.Names[i])
		proc.Save(enc)
	}
	return enc.Bytes()
}

// Load replaces the model's contents with what Save wrote. It assumes
// buf is a trusted, well-formed model file: a short read or an unknown
// processor name fails hard rather than recovering, per spec.md §7.
func (m *Model) Load(buf []byte) error {
	dec := model.NewDecoder(buf)
	total, err := dec.Next4B()
	if err != nil {
		return fmt.Errorf("ner: reading total feature count: %w", err)
	}
	entities := model.NewEntityMap()
	if err := entities.Load(dec); err != nil {
		return fmt.Errorf("ner: reading entity registry: %w", err)
	}
	n, err := dec.Next4B()
	if err != nil {
		return fmt.Errorf("ner: reading processor count: %w", err)
	}
	processors := make([]features.Processor, 0, n)
	names := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		name, err := dec.NextString()
		if err != nil {
			return fmt.Errorf("ner: reading processor %d name: %w", i, err)
		}
		proc, ok := features.New(name)
		if !ok {
			return fmt.Errorf("ner: model file names unknown processor %q", name)
		}
		if err := proc.Load(dec); err != nil {
			return fmt.Errorf("ner: loading %q: %w", name, err)
		}
		processors = append(processors, proc)
		names = append(names, name)
	}
	m.TotalFeatures = total
	m.Entities = entities
	m.Processors = processors
	m.Names = names
	return nil
}
