package worker

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/anglisano/nametag/ner/model"
	"github.com/anglisano/nametag/pipeline"
	"github.com/anglisano/nametag/utils"
)

// Message is the request envelope published to the tagging task queue:
// an already-tokenized sentence, out-of-scope morphological analysis
// and tokenization having already happened upstream.
type Message struct {
	ID    string       `json:"id"`
	Words []model.Word `json:"words"`
}

// Result is what gets published back to the tagged-result queue.
type Result struct {
	ID       string              `json:"id"`
	Entities []model.NamedEntity `json:"entities"`
}

func (w *Worker) processMessage(delivery *amqp.Delivery) {
	log := w.log.With().Str("message_id", delivery.MessageId).Logger()

	result, err := w.tagMessage(delivery.Body, &log)
	if err != nil {
		log.Err(err).Msg("failed to process delivery")
		if err := delivery.Reject(false); err != nil {
			log.Err(err).Msg("failed to reject delivery")
		}
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		log.Err(err).Msg("failed to marshal tagged result")
		_ = delivery.Reject(false)
		return
	}
	if err := w.rmq.PublishTaggedResult(amqp.Publishing{ContentType: "application/json", Body: body}); err != nil {
		log.Err(err).Msg("got error while publishing tagged result")
		_ = delivery.Reject(false)
		return
	}
	if err := delivery.Ack(false); err != nil {
		log.Err(err).Msg("failed to acknowledge delivery")
	}
	log.Info().Msg("finished processing delivery")
}

func (w *Worker) tagMessage(body []byte, log *zerolog.Logger) (result Result, err error) {
	defer utils.RecoverWithError(&err)

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Result{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	sent := model.DecodeSentence(msg.Words)
	m := w.currentModel()
	entities, err := pipeline.Tag(m, sent, w.clf, w.dec)
	if err != nil {
		return Result{}, fmt.Errorf("failed to tag sentence: %w", err)
	}
	log.Debug().Str("id", msg.ID).Int("entities", len(entities)).Msg("tagged message")
	return Result{ID: msg.ID, Entities: entities}, nil
}
