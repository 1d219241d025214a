package services

// CharEstimator approximates token usage by character count. It is the
// reference "estimate cost without a precise tokenizer" behavior; a real
// per-provider tokenizer can be substituted through ports.TokenEstimator.
type CharEstimator struct {
	CharsPerToken int
}

// NewCharEstimator returns an estimator at the conventional 4 chars/token.
func NewCharEstimator() *CharEstimator {
	return &CharEstimator{CharsPerToken: 4}
}

// Estimate rounds up, so any non-empty text costs at least one token.
func (e *CharEstimator) Estimate(text string) int {
	cpt := e.CharsPerToken
	if cpt <= 0 {
		cpt = 4
	}
	if len(text) == 0 {
		return 0
	}
	return (len(text) + cpt - 1) / cpt
}
