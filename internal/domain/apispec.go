package domain

// APISpecSummary is the condensed view of an instance's published OpenAPI
// document: enough for an agent to see what the API offers without carrying
// the full schema payload around.
type APISpecSummary struct {
	Title      string         `json:"title"`
	Version    string         `json:"version"`
	Operations []APIOperation `json:"operations"`
}

// APIOperation is a single method+path entry of the document.
type APIOperation struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Summary     string `json:"summary,omitempty"`
	OperationID string `json:"operation_id,omitempty"`
}
