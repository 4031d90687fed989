package domain

// GeneralType is the clause category used when nothing more specific applies.
const GeneralType = "General"

// Clause is a segmented span of legal text. It is never mutated after segmentation.
type Clause struct {
	Index int
	Text  string
	Type  string
}

// SimplificationResult pairs a clause with its plain-language rendition.
type SimplificationResult struct {
	Original            string `json:"original"`
	Simplified          string `json:"simplified"`
	ComplexityReduction int    `json:"complexity_reduction"`
	Tier                string `json:"tier"`
}

// ClauseClassification attaches a label to a clause.
type ClauseClassification struct {
	Clause string `json:"clause"`
	Label  string `json:"label"`
}
