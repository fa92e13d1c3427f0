// Package api is an optional synchronous HTTP surface alongside the
// AMQP worker, for local testing and low-volume callers. Grounded on
// api/request.go's single-handler, request-logger shape.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/anglisano/nametag/classifier"
	"github.com/anglisano/nametag/ner"
	"github.com/anglisano/nametag/ner/model"
	"github.com/anglisano/nametag/pipeline"
)

// TagHandler serves POST /tag: one model.Word slice in, one
// model.NamedEntity slice out.
type TagHandler struct {
	Model      *ner.Model
	Classifier classifier.Classifier
	Decoder    classifier.BILOUDecoder
}

type tagRequest struct {
	Words []model.Word `json:"words"`
}

func (h *TagHandler) Tag(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		log.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("only POST is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Int("status", http.StatusBadRequest).Msg("could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	var req tagRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Err(err).Int("status", http.StatusBadRequest).Msg("could not parse request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	sent := model.DecodeSentence(req.Words)
	entities, err := pipeline.Tag(h.Model, sent, h.Classifier, h.Decoder)
	if err != nil {
		log.Err(err).Int("status", http.StatusInternalServerError).Msg("failed to tag sentence")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(entities)
	if err != nil {
		log.Err(err).Int("status", http.StatusInternalServerError).Msg("failed to marshal response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	log.Info().Int("tokens", len(req.Words)).Int("entities", len(entities)).Msg("tagged request")
	_, _ = w.Write(resp)
}
