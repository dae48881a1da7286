package model

import "encoding/json"

// Snippet is one unit of evidence text tied to a company and a source.
// Snippets are produced by ingestion and never mutated afterwards.
type Snippet struct {
	SnippetID  string `json:"snippet_id"`
	CompanyID  string `json:"company_id"`
	SourceID   string `json:"source_id,omitempty"`
	SourceType string `json:"source_type,omitempty"` // filing, news, ngo, ...
	Text       string `json:"text"`
	Date       string `json:"date,omitempty"` // Reporting date as given by the source
}

// Valid reports whether the snippet carries the identifiers the pipeline keys on
func (s Snippet) Valid() bool {
	return s.SnippetID != "" && s.CompanyID != ""
}

// UnmarshalJSON accepts the legacy "type" key as an alias of "source_type"
func (s *Snippet) UnmarshalJSON(data []byte) error {
	type plain Snippet
	var aux struct {
		plain
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Snippet(aux.plain)
	if s.SourceType == "" {
		s.SourceType = aux.Type
	}
	return nil
}
