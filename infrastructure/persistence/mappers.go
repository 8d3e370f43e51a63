package persistence

import (
	"strings"
	"time"

	"github.com/helixml/textstat/domain/count"
)

// RecordMapper maps between domain Records and database RecordModels.
type RecordMapper struct{}

// ToDomain converts a RecordModel to a domain Record.
func (m RecordMapper) ToDomain(e RecordModel) count.Record {
	result := count.NewResult().
		WithLength(e.Length, e.SelectedLength).
		WithCharacters(e.Characters, e.SelectedCharacters).
		WithLines(e.Lines, e.SelectedLines).
		WithWords(e.Words, e.SelectedWords).
		WithLocation(e.CaretLocation).
		WithLine(e.CaretLine).
		WithColumn(e.CaretColumn)
	if e.Unicode != nil {
		result = result.WithUnicode(count.NewCodePoint(rune(*e.Unicode)))
	}

	return count.NewRecord(
		e.ID,
		e.CreatedAt,
		count.State(e.State),
		metricsFromDB(e.Metrics),
		count.LineEnding(e.LineEnding),
		e.CountsLineEnding,
		e.TextUnits,
		time.Duration(e.DurationNS),
		result,
	)
}

// ToModel converts a domain Record to a RecordModel.
func (m RecordMapper) ToModel(r count.Record) RecordModel {
	result := r.Result()

	var unicode *int32
	if result.Unicode().Defined() {
		scalar := int32(result.Unicode().Scalar())
		unicode = &scalar
	}

	return RecordModel{
		ID:                 r.ID(),
		CreatedAt:          r.CreatedAt(),
		State:              string(r.State()),
		Metrics:            r.Metrics().String(),
		LineEnding:         string(r.LineEnding()),
		CountsLineEnding:   r.CountsLineEnding(),
		TextUnits:          r.TextUnits(),
		DurationNS:         int64(r.Duration()),
		Length:             result.Length(),
		Characters:         result.Characters(),
		Lines:              result.Lines(),
		Words:              result.Words(),
		SelectedLength:     result.SelectedLength(),
		SelectedCharacters: result.SelectedCharacters(),
		SelectedLines:      result.SelectedLines(),
		SelectedWords:      result.SelectedWords(),
		CaretLocation:      result.Location(),
		CaretLine:          result.Line(),
		CaretColumn:        result.Column(),
		Unicode:            unicode,
	}
}

// metricsFromDB parses the stored metric list, falling back to the full set
// when the value does not parse.
func metricsFromDB(s string) count.Metric {
	metrics, err := count.ParseMetrics(strings.Split(s, ","))
	if err != nil {
		return count.All
	}
	return metrics
}
