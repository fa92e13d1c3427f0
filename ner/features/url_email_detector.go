package features

import (
	"fmt"
	"strings"

	"github.com/anglisano/nametag/ner/features/urldetector"
	"github.com/anglisano/nametag/ner/model"
)

// URLEmailDetector seeds a token's local BILOU probabilities
// deterministically whenever it recognizes a URL or email address,
// per spec.md §4.9 — a hard override later decoding stages see as
// already-decided evidence rather than something to re-score.
type URLEmailDetector struct {
	Base
	urlType, emailType model.EntityType
}

func (p *URLEmailDetector) Parse(window int32, args []string, entities *model.EntityMap, total *int32) error {
	if err := p.Base.Parse(window, args, entities, total); err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("URLEmailDetector requires exactly 2 arguments (url entity, email entity)")
	}
	if args[0] == "" || args[1] == "" {
		return fmt.Errorf("URLEmailDetector: entity names must not be empty")
	}
	urlType, _ := entities.Parse(args[0], true)
	emailType, _ := entities.Parse(args[1], true)
	p.urlType = urlType
	p.emailType = emailType
	return nil
}

func (p *URLEmailDetector) Load(dec *model.Decoder) error {
	if err := p.Base.Load(dec); err != nil {
		return err
	}
	url, err := dec.Next4B()
	if err != nil {
		return err
	}
	email, err := dec.Next4B()
	if err != nil {
		return err
	}
	p.urlType = model.EntityType(url)
	p.emailType = model.EntityType(email)
	return nil
}

func (p *URLEmailDetector) Save(enc *model.Encoder) {
	p.Base.Save(enc)
	enc.Add4B(int32(p.urlType))
	enc.Add4B(int32(p.emailType))
}

func (p *URLEmailDetector) ProcessSentence(sent *model.Sentence, total *int32, _ *strings.Builder) {
	for i, w := range sent.Words {
		if sent.Probabilities[i].LocalFilled {
			continue
		}
		kind := urldetector.Detect(w.Form)
		if kind == urldetector.NoURL {
			continue
		}
		entity := p.urlType
		if kind == urldetector.Email {
			entity = p.emailType
		}
		local := &sent.Probabilities[i].Local
		for b := 0; b < model.NumBILOU; b++ {
			local.BILOU[b] = model.BILOUProbability{Probability: 0, Entity: model.EntityTypeUnknown}
		}
		local.BILOU[model.U] = model.BILOUProbability{Probability: 1.0, Entity: entity}
		sent.Probabilities[i].LocalFilled = true
	}
}
