// Package ingest imports requirements and standards from JSON payloads. Each
// record is processed independently; a bad record lands in the result's error
// list and never aborts the batch.
package ingest

// Result summarizes one ingest run.
type Result struct {
	CreatedCount         int      `json:"created_count"`
	Errors               []string `json:"errors"`
	KeywordsCreatedCount int      `json:"keywords_created_count,omitempty"`
}

func newResult() *Result {
	return &Result{Errors: []string{}}
}
