package huggingface

import (
	"encoding/json"
	"errors"
	"sort"

	"LegalAnalyzer/internal/domain"
)

var errUnexpectedShape = errors.New("unexpected response shape")

type textBody struct {
	SummaryText     *string `json:"summary_text"`
	GeneratedText   *string `json:"generated_text"`
	TranslationText *string `json:"translation_text"`
}

func (b textBody) text() (string, bool) {
	for _, v := range []*string{b.SummaryText, b.GeneratedText, b.TranslationText} {
		if v != nil {
			return *v, true
		}
	}
	return "", false
}

// decodeText accepts [{summary_text}], {summary_text}, [{generated_text}] and {generated_text}.
func decodeText(raw []byte) (domain.ModelResponse, error) {
	var list []textBody
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if text, ok := item.text(); ok {
				return domain.ModelResponse{Kind: domain.ResponseText, Text: text}, nil
			}
		}
		return domain.ModelResponse{}, errUnexpectedShape
	}

	var single textBody
	if err := json.Unmarshal(raw, &single); err != nil {
		return domain.ModelResponse{}, err
	}
	text, ok := single.text()
	if !ok {
		return domain.ModelResponse{}, errUnexpectedShape
	}
	return domain.ModelResponse{Kind: domain.ResponseText, Text: text}, nil
}

type zeroShotBody struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// decodeLabels accepts {labels, scores}, [{labels, scores}], [{label, score}] and [[{label, score}]].
// Labels come back sorted by descending score.
func decodeLabels(raw []byte) (domain.ModelResponse, error) {
	var labels []domain.ScoredLabel

	var single zeroShotBody
	var wrapped []zeroShotBody
	var flat []labelScore
	var nested [][]labelScore

	switch {
	case json.Unmarshal(raw, &single) == nil && len(single.Labels) > 0:
		labels = zip(single)
	case json.Unmarshal(raw, &wrapped) == nil && len(wrapped) > 0 && len(wrapped[0].Labels) > 0:
		labels = zip(wrapped[0])
	case json.Unmarshal(raw, &flat) == nil && len(flat) > 0 && flat[0].Label != "":
		labels = fromPairs(flat)
	case json.Unmarshal(raw, &nested) == nil && len(nested) > 0 && len(nested[0]) > 0:
		labels = fromPairs(nested[0])
	default:
		return domain.ModelResponse{}, errUnexpectedShape
	}

	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })
	return domain.ModelResponse{Kind: domain.ResponseLabels, Labels: labels}, nil
}

func zip(body zeroShotBody) []domain.ScoredLabel {
	out := make([]domain.ScoredLabel, len(body.Labels))
	for i, label := range body.Labels {
		out[i] = domain.ScoredLabel{Label: label}
		if i < len(body.Scores) {
			out[i].Score = body.Scores[i]
		}
	}
	return out
}

func fromPairs(pairs []labelScore) []domain.ScoredLabel {
	out := make([]domain.ScoredLabel, len(pairs))
	for i, p := range pairs {
		out[i] = domain.ScoredLabel{Label: p.Label, Score: p.Score}
	}
	return out
}

type entityBody struct {
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

// decodeEntities accepts [{entity_group|entity, word, score, start, end}] and its nested form.
// Types are passed through untouched; callers filter and clean them.
func decodeEntities(raw []byte) (domain.ModelResponse, error) {
	var flat []entityBody
	if err := json.Unmarshal(raw, &flat); err != nil {
		var nested [][]entityBody
		if nestedErr := json.Unmarshal(raw, &nested); nestedErr != nil {
			return domain.ModelResponse{}, err
		}
		for _, group := range nested {
			flat = append(flat, group...)
		}
	}

	terms := make([]domain.EntityTerm, 0, len(flat))
	for _, e := range flat {
		typ := e.EntityGroup
		if typ == "" {
			typ = e.Entity
		}
		terms = append(terms, domain.EntityTerm{Word: e.Word, Type: typ, Score: e.Score})
	}
	return domain.ModelResponse{Kind: domain.ResponseEntities, Entities: terms}, nil
}
