package domain

import "time"

// AnalysisResult is the root aggregate returned for one analysed document.
type AnalysisResult struct {
	ID                string                 `json:"id"`
	DocumentName      string                 `json:"document_name,omitempty"`
	DocumentInfo      DocumentInfo           `json:"document_info"`
	Classification    DocumentClassification `json:"classification"`
	Clauses           ClauseSummary          `json:"clauses"`
	Summary           Summary                `json:"summary"`
	LegalTerms        []string               `json:"legal_terms"`
	RawClauses        []string               `json:"raw_clauses"`
	SimplifiedClauses []string               `json:"simplified_clauses"`
	Simplifications   []SimplificationResult `json:"simplifications,omitempty"`
	Warnings          []string               `json:"warnings,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

// DocumentInfo carries size metadata about the analysed document.
type DocumentInfo struct {
	Pages     int `json:"pages"`
	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`
	SizeBytes int `json:"size_bytes"`
}

// DocumentClassification is the document-level category.
type DocumentClassification struct {
	PrimaryClassification string  `json:"primary_classification"`
	ConfidenceScore       float64 `json:"confidence_score"`
}

// ClauseSummary lists every clause with its label.
type ClauseSummary struct {
	TotalFound      int                    `json:"total_found"`
	Classifications []ClauseClassification `json:"classifications"`
}

// Summary is the condensed view rendered first by clients.
type Summary struct {
	DocumentType string      `json:"document_type"`
	KeyClauses   []KeyClause `json:"key_clauses"`
	MainParties  []string    `json:"main_parties"`
}

// KeyClause is one of the top clauses highlighted in the summary.
type KeyClause struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Original   string `json:"original"`
	Simplified string `json:"simplified"`
}
