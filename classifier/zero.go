package classifier

// Zero is a placeholder Classifier that predicts the Outside label for
// every token. Serving with it produces no entities; it exists so the
// worker and API have something to run against before a trained
// classifier is wired in.
type Zero struct{}

func (Zero) Predict([]int32) byte { return 0 }
