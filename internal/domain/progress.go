package domain

// Stage names a top-level pipeline step.
type Stage string

const (
	StageExtraction             Stage = "extraction"
	StageSegmentation           Stage = "segmentation"
	StageSimplification         Stage = "simplification"
	StageClassification         Stage = "classification"
	StageDocumentClassification Stage = "document_classification"
	StageEntities               Stage = "entities"
)

// StageStatus marks a stage transition.
type StageStatus string

const (
	StatusLoading   StageStatus = "loading"
	StatusCompleted StageStatus = "completed"
)

// ProgressEvent is published while a document is analysed.
// Stage transitions set Status; per-item events set Index (1-based) and Total instead.
type ProgressEvent struct {
	Step    Stage       `json:"step"`
	Status  StageStatus `json:"status,omitempty"`
	Index   int         `json:"index,omitempty"`
	Total   int         `json:"total,omitempty"`
	Message string      `json:"message"`
	Result  any         `json:"result"`
}

// IsStageEvent reports whether the event marks a stage transition.
func (e ProgressEvent) IsStageEvent() bool {
	return e.Status != ""
}
