package service

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

// DefaultTutorName is the persona used when none is configured.
const DefaultTutorName = "EcoStudy AI"

//go:embed knowledge.txt
var defaultKnowledge string

// PromptBuilder wraps a student question with the tutor persona and the
// course knowledge block. It holds no mutable state.
type PromptBuilder struct {
	tutorName string
	knowledge string
}

// NewPromptBuilder loads the knowledge block from knowledgeFile, or uses the
// built-in oligopoly notes when the path is empty.
func NewPromptBuilder(tutorName, knowledgeFile string) (*PromptBuilder, error) {
	knowledge := defaultKnowledge
	if knowledgeFile != "" {
		b, err := os.ReadFile(knowledgeFile)
		if err != nil {
			return nil, fmt.Errorf("read knowledge file: %w", err)
		}
		knowledge = string(b)
	}
	knowledge = strings.TrimSpace(knowledge)
	if knowledge == "" {
		return nil, fmt.Errorf("knowledge block is empty")
	}
	if strings.TrimSpace(tutorName) == "" {
		tutorName = DefaultTutorName
	}
	return &PromptBuilder{tutorName: tutorName, knowledge: knowledge}, nil
}

// Build returns the full prompt for question.
func (p *PromptBuilder) Build(question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Economics Tutor for %s.\n", p.tutorName)
	b.WriteString("Respond naturally to user greetings and questions.\n")
	b.WriteString("If the user asks an academic question, base your answer strictly on this context:\n")
	b.WriteString(p.knowledge)
	b.WriteString("\n\nUSER QUESTION: ")
	b.WriteString(question)
	b.WriteString("\n\nYOUR RESPONSE:")
	return b.String()
}
