package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	SourcePDF   = "pdf"
	SourceVideo = "video"
)

// Source is a reference document offered to students.
type Source struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"` // pdf | video
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Source) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: source title is required", ErrValidation)
	}
	if s.Type != SourcePDF && s.Type != SourceVideo {
		return fmt.Errorf("%w: source type must be pdf or video", ErrValidation)
	}
	return nil
}
