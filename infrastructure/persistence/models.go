package persistence

import "time"

// RecordModel is the GORM model for archived counting operations. Caret
// fields carry a prefix so the table reads unambiguously next to the
// whole-document tallies.
type RecordModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
	State            string    `gorm:"column:state;index"`
	Metrics          string    `gorm:"column:metrics"`
	LineEnding       string    `gorm:"column:line_ending"`
	CountsLineEnding bool      `gorm:"column:counts_line_ending"`
	TextUnits        int       `gorm:"column:text_units"`
	DurationNS       int64     `gorm:"column:duration_ns"`

	Length             int    `gorm:"column:length"`
	Characters         int    `gorm:"column:characters"`
	Lines              int    `gorm:"column:lines"`
	Words              int    `gorm:"column:words"`
	SelectedLength     int    `gorm:"column:selected_length"`
	SelectedCharacters int    `gorm:"column:selected_characters"`
	SelectedLines      int    `gorm:"column:selected_lines"`
	SelectedWords      int    `gorm:"column:selected_words"`
	CaretLocation      int    `gorm:"column:caret_location"`
	CaretLine          int    `gorm:"column:caret_line"`
	CaretColumn        int    `gorm:"column:caret_column"`
	Unicode            *int32 `gorm:"column:unicode"`
}

// TableName sets the table for count records.
func (RecordModel) TableName() string { return "count_records" }
