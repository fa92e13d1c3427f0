package features

import (
	"fmt"

	"github.com/anglisano/nametag/ner/model"
)

// CzechAddContainers synthesizes two container entity types from runs of
// adjacent finer-grained ones, per spec.md §4.10: "P" (person) from a
// first-name run directly followed by a surname run, and "T" (date-time)
// from a day+month(+year) run or a month+year pair. It carries no
// window-dependent state, so a non-zero window is rejected at Parse
// time rather than silently ignored.
type CzechAddContainers struct{ Base }

func (p *CzechAddContainers) Parse(window int32, args []string, entities *model.EntityMap, total *int32) error {
	if window != 0 {
		return fmt.Errorf("CzechAddContainers cannot have non-zero window!")
	}
	return p.Base.Parse(window, args, entities, total)
}

func abuts(a, b model.NamedEntity) bool {
	return a.End() == b.Start
}

// personContainer checks whether i starts an unconsumed run of "pf"
// entities directly followed by a run of "ps" entities, and if so
// returns the "P" container spanning both runs.
func personContainer(entities []model.NamedEntity, i int) (model.NamedEntity, bool) {
	e := entities[i]
	if e.Type != "pf" {
		return model.NamedEntity{}, false
	}
	if i > 0 && abuts(entities[i-1], e) && entities[i-1].Type == "pf" {
		return model.NamedEntity{}, false
	}
	j := i
	for j+1 < len(entities) && abuts(entities[j], entities[j+1]) && entities[j+1].Type == "pf" {
		j++
	}
	if j+1 >= len(entities) || !abuts(entities[j], entities[j+1]) || entities[j+1].Type != "ps" {
		return model.NamedEntity{}, false
	}
	j++
	for j+1 < len(entities) && abuts(entities[j], entities[j+1]) && entities[j+1].Type == "ps" {
		j++
	}
	last := entities[j]
	return model.NamedEntity{Start: e.Start, Length: last.End() - e.Start, Type: "P"}, true
}

// timeContainer checks whether i starts a "td"+"tm"(+"ty") run or a
// "tm"+"ty" pair not already covered by the first form, and if so
// returns the "T" container.
func timeContainer(entities []model.NamedEntity, i int) (model.NamedEntity, bool) {
	e := entities[i]
	switch e.Type {
	case "td":
		if i+1 >= len(entities) || !abuts(e, entities[i+1]) || entities[i+1].Type != "tm" {
			return model.NamedEntity{}, false
		}
		last := i + 1
		if i+2 < len(entities) && abuts(entities[i+1], entities[i+2]) && entities[i+2].Type == "ty" {
			last = i + 2
		}
		return model.NamedEntity{Start: e.Start, Length: entities[last].End() - e.Start, Type: "T"}, true
	case "tm":
		if i > 0 && abuts(entities[i-1], e) && entities[i-1].Type == "td" {
			return model.NamedEntity{}, false
		}
		if i+1 >= len(entities) || !abuts(e, entities[i+1]) || entities[i+1].Type != "ty" {
			return model.NamedEntity{}, false
		}
		return model.NamedEntity{Start: e.Start, Length: entities[i+1].End() - e.Start, Type: "T"}, true
	default:
		return model.NamedEntity{}, false
	}
}

func (p *CzechAddContainers) ProcessEntities(sent *model.Sentence, entities *[]model.NamedEntity, buffer *[]model.NamedEntity) {
	src := *entities
	*buffer = (*buffer)[:0]
	for i, e := range src {
		if container, ok := personContainer(src, i); ok {
			*buffer = append(*buffer, container)
		} else if container, ok := timeContainer(src, i); ok {
			*buffer = append(*buffer, container)
		}
		*buffer = append(*buffer, e)
	}
	if len(*buffer) > len(src) {
		*entities = append((*entities)[:0], *buffer...)
	}
}
