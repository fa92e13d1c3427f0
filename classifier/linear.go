package classifier

import (
	"encoding/json"
	"os"
)

// Linear is a JSON-loaded linear classifier: a bias plus a per-label
// weight vector indexed by feature id, adapted from
// nlp/model/linear_model.go's Model/Predict — LibLinear-style binary
// features (every present feature id contributes weight 1.0) instead of
// that model's generic Features interface, since ner/features only ever
// produces presence features.
type Linear struct {
	Bias        float64   `json:"bias"`
	W           []float64 `json:"weights"`
	Labels      []byte    `json:"labels"`
	FeaturesLen int       `json:"features_len"`
}

// LoadLinear reads a Linear classifier from a JSON file.
func LoadLinear(path string) (*Linear, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Linear
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Predict scores every label against the token's present feature ids
// and returns the argmax label byte, like linear_model.Predict but with
// every feature's value fixed at 1.0. Unlike the teacher's LibLinear
// convention (feature indices 1-based, 0 reserved as "absent"), feature
// ids from ner/features are 0-based, so W is indexed by idx directly
// rather than idx-1.
func (m *Linear) Predict(features []int32) byte {
	nrW := len(m.Labels)
	if nrW == 2 {
		nrW = 1
	}
	decValues := make([]float64, len(m.Labels))

	n := m.FeaturesLen

	for _, idx := range features {
		if idx < 0 || int(idx) >= n {
			continue
		}
		base := int(idx) * nrW
		for i := 0; i < nrW; i++ {
			decValues[i] += m.W[base+i]
		}
	}
	if m.Bias >= 0.0 {
		base := n * nrW
		for i := 0; i < nrW; i++ {
			decValues[i] += m.Bias * m.W[base+i]
		}
	}

	if len(m.Labels) == 2 {
		if decValues[0] > 0.0 {
			return m.Labels[0]
		}
		return m.Labels[1]
	}

	best := 0
	for i := 1; i < len(m.Labels); i++ {
		if decValues[i] > decValues[best] {
			best = i
		}
	}
	return m.Labels[best]
}
