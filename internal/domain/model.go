package domain

// ResponseKind tags the variant held by a ModelResponse.
type ResponseKind string

const (
	ResponseText     ResponseKind = "text"
	ResponseLabels   ResponseKind = "labels"
	ResponseEntities ResponseKind = "entities"
)

// ScoredLabel is one zero-shot classification candidate.
type ScoredLabel struct {
	Label string
	Score float64
}

// ModelResponse is the normalized output of any hosted model call.
// Only the field matching Kind is populated; failures travel as errors.
type ModelResponse struct {
	Kind     ResponseKind
	Text     string
	Labels   []ScoredLabel
	Entities []EntityTerm
}

// TopLabel returns the best scored label, if any.
func (r ModelResponse) TopLabel() (ScoredLabel, bool) {
	if len(r.Labels) == 0 {
		return ScoredLabel{}, false
	}
	best := r.Labels[0]
	for _, l := range r.Labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	return best, true
}
