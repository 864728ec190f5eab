package progress

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"wizkid-challenge/internal/domain"
)

// CurrentVersion is written into every saved document. Documents without a
// version are the legacy shape, which uses the same field names.
const CurrentVersion = 1

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["totalPoints", "streak", "dailyBest"],
  "properties": {
    "version":        {"type": "integer", "enum": [1]},
    "totalPoints":    {"type": "integer", "minimum": 0},
    "streak":         {"type": "integer", "minimum": 0},
    "dailyBest":      {"type": "integer", "minimum": 0},
    "lastPlayedDate": {
      "type": ["string", "null"],
      "pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2})?$"
    }
  }
}`

var schema = mustSchema(documentSchema)

func mustSchema(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("progress schema: %v", err))
	}
	return s
}

type document struct {
	Version        int     `json:"version"`
	TotalPoints    int     `json:"totalPoints"`
	Streak         int     `json:"streak"`
	LastPlayedDate *string `json:"lastPlayedDate"`
	DailyBest      int     `json:"dailyBest"`
}

// Encode serializes progress as a versioned JSON document.
func Encode(p domain.Progress) ([]byte, error) {
	last := p.LastPlayedDate.String()
	return json.Marshal(document{
		Version:        CurrentVersion,
		TotalPoints:    p.TotalPoints,
		Streak:         p.Streak,
		LastPlayedDate: &last,
		DailyBest:      p.DailyBest,
	})
}

// Decode validates data against the document schema before reading it.
// Any mismatch yields domain.ErrMalformedProgress.
func Decode(data []byte) (domain.Progress, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return domain.Progress{}, fmt.Errorf("%w: %v", domain.ErrMalformedProgress, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.Progress{}, fmt.Errorf("%w: %s", domain.ErrMalformedProgress, strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Progress{}, fmt.Errorf("%w: %v", domain.ErrMalformedProgress, err)
	}
	p := domain.Progress{
		TotalPoints: doc.TotalPoints,
		Streak:      doc.Streak,
		DailyBest:   doc.DailyBest,
	}
	if doc.LastPlayedDate != nil {
		day, err := domain.ParseDay(*doc.LastPlayedDate)
		if err != nil {
			return domain.Progress{}, fmt.Errorf("%w: %v", domain.ErrMalformedProgress, err)
		}
		p.LastPlayedDate = day
	}
	return p, nil
}
