// Package classifier defines the interfaces pipeline.Tag calls after
// feature extraction, plus one concrete Classifier implementation kept
// as a placeholder the worker and tests can run against. Training the
// actual NER label model is out of scope; this package exists to give
// the pipeline something real to call, not to be a serious classifier.
package classifier

import "github.com/anglisano/nametag/ner/model"

// Classifier predicts a label byte from a token's sparse feature ids.
type Classifier interface {
	Predict(features []int32) byte
}

// BILOUDecoder turns a per-token label sequence into the entity spans
// CzechAddContainers.ProcessEntities then builds containers from.
type BILOUDecoder interface {
	Decode(sent *model.Sentence, labels []byte) []model.NamedEntity
}
