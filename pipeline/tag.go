// Package pipeline orchestrates one sentence through feature
// extraction, classification, BILOU decoding and entity
// post-processing — the runtime counterpart of ner.Model's static
// processor list. Built fresh for this domain; grounded on the
// constructor-and-run shape of pipeline.DefaultClinical, not its
// clinical-specific wiring.
package pipeline

import (
	"strings"

	"github.com/anglisano/nametag/classifier"
	"github.com/anglisano/nametag/logger"
	"github.com/anglisano/nametag/ner"
	"github.com/anglisano/nametag/ner/model"
)

var tagLogger = logger.New("pipeline.Tag")

// Tag runs sent through m's processors in registration order (feature
// emission), classifies every token, decodes the label sequence into
// BILOU entity spans, then runs every processor's ProcessEntities in
// the same order — only CzechAddContainers does anything there.
func Tag(m *ner.Model, sent *model.Sentence, clf classifier.Classifier, dec classifier.BILOUDecoder) ([]model.NamedEntity, error) {
	var buffer strings.Builder
	for _, proc := range m.Processors {
		proc.ProcessSentence(sent, &m.TotalFeatures, &buffer)
	}

	labels := make([]byte, sent.Size())
	for i := range sent.Words {
		labels[i] = clf.Predict(sent.Features[i])
	}

	entities := dec.Decode(sent, labels)

	var entityBuffer []model.NamedEntity
	for _, proc := range m.Processors {
		proc.ProcessEntities(sent, &entities, &entityBuffer)
	}

	tagLogger.Debug().Int("tokens", sent.Size()).Int("entities", len(entities)).Msg("tagged sentence")
	return entities, nil
}
