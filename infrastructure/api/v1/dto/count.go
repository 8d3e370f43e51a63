package dto

import (
	"time"

	"github.com/helixml/textstat/infrastructure/api/jsonapi"
)

// CountRequest represents a counting request.
type CountRequest struct {
	Text             string   `json:"text"`
	Metrics          []string `json:"metrics,omitempty"`
	LineEnding       string   `json:"line_ending,omitempty"`
	CountsLineEnding *bool    `json:"counts_line_ending,omitempty"`
	SelectionStart   *int     `json:"selection_start,omitempty"`
	SelectionEnd     *int     `json:"selection_end,omitempty"`
}

// CountResult represents the computed statistics of a counting run.
// Whole-text and selection values that were not requested are omitted.
type CountResult struct {
	LineEnding         string `json:"line_ending"`
	Length             int    `json:"length"`
	Characters         int    `json:"characters"`
	Lines              int    `json:"lines"`
	Words              int    `json:"words"`
	SelectedLength     int    `json:"selected_length"`
	SelectedCharacters int    `json:"selected_characters"`
	SelectedLines      int    `json:"selected_lines"`
	SelectedWords      int    `json:"selected_words"`
	Location           int    `json:"location"`
	Line               int    `json:"line"`
	Column             int    `json:"column"`
	Unicode            string `json:"unicode,omitempty"`
}

// OperationAttributes represents operation attributes in JSON:API format.
type OperationAttributes struct {
	State            string       `json:"state"`
	Metrics          []string     `json:"metrics"`
	LineEnding       string       `json:"line_ending"`
	CountsLineEnding bool         `json:"counts_line_ending"`
	TextUnits        int          `json:"text_units"`
	CreatedAt        time.Time    `json:"created_at"`
	DurationMS       int64        `json:"duration_ms"`
	Result           *CountResult `json:"result,omitempty"`
	Error            string       `json:"error,omitempty"`
}

// OperationData represents operation data in JSON:API format.
type OperationData struct {
	Type       string              `json:"type"`
	ID         string              `json:"id"`
	Attributes OperationAttributes `json:"attributes"`
}

// OperationJSONAPIResponse represents a single operation in JSON:API format.
type OperationJSONAPIResponse struct {
	Data OperationData `json:"data"`
}

// OperationJSONAPIListResponse represents a list of operations in JSON:API format.
type OperationJSONAPIListResponse struct {
	Data  []OperationData `json:"data"`
	Meta  *jsonapi.Meta   `json:"meta,omitempty"`
	Links *jsonapi.Links  `json:"links,omitempty"`
}

// RecordAttributes represents a persisted count record in JSON:API format.
type RecordAttributes struct {
	State            string       `json:"state"`
	Metrics          []string     `json:"metrics"`
	LineEnding       string       `json:"line_ending"`
	CountsLineEnding bool         `json:"counts_line_ending"`
	TextUnits        int          `json:"text_units"`
	CreatedAt        time.Time    `json:"created_at"`
	DurationMS       int64        `json:"duration_ms"`
	Result           *CountResult `json:"result,omitempty"`
}

// RecordData represents count record data in JSON:API format.
type RecordData struct {
	Type       string           `json:"type"`
	ID         string           `json:"id"`
	Attributes RecordAttributes `json:"attributes"`
}

// RecordJSONAPIResponse represents a single count record in JSON:API format.
type RecordJSONAPIResponse struct {
	Data RecordData `json:"data"`
}

// RecordJSONAPIListResponse represents a list of count records in JSON:API format.
type RecordJSONAPIListResponse struct {
	Data  []RecordData   `json:"data"`
	Meta  *jsonapi.Meta  `json:"meta,omitempty"`
	Links *jsonapi.Links `json:"links,omitempty"`
}
