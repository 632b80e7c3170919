package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptBuilder_Default(t *testing.T) {
	p, err := NewPromptBuilder("", "")
	if err != nil {
		t.Fatalf("NewPromptBuilder: %v", err)
	}

	got := p.Build("What is a kinked demand curve?")

	wantParts := []string{
		"You are an expert Economics Tutor for EcoStudy AI.",
		"Respond naturally to user greetings and questions.",
		"base your answer strictly on this context:",
		"TOPIC: Economics - Oligopoly",
		"Nash Equilibrium (no player benefits from changing strategy unilaterally).",
		"USER QUESTION: What is a kinked demand curve?",
	}
	for _, w := range wantParts {
		if !strings.Contains(got, w) {
			t.Errorf("prompt missing %q\n%s", w, got)
		}
	}
	if !strings.HasSuffix(got, "YOUR RESPONSE:") {
		t.Errorf("prompt should end with the response marker:\n%s", got)
	}
	if strings.Index(got, "TOPIC:") > strings.Index(got, "USER QUESTION:") {
		t.Errorf("knowledge must precede the question")
	}
}

func TestPromptBuilder_IsPure(t *testing.T) {
	p, err := NewPromptBuilder("Tutor", "")
	if err != nil {
		t.Fatalf("NewPromptBuilder: %v", err)
	}
	if p.Build("hi") != p.Build("hi") {
		t.Fatal("Build must be deterministic")
	}
	if p.Build("hi") == p.Build("hello") {
		t.Fatal("different questions must give different prompts")
	}
}

func TestPromptBuilder_KnowledgeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	if err := os.WriteFile(path, []byte("\nTOPIC: Monopoly\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := NewPromptBuilder("Micro Tutor", path)
	if err != nil {
		t.Fatalf("NewPromptBuilder: %v", err)
	}
	got := p.Build("q")
	if !strings.Contains(got, "Tutor for Micro Tutor.") || !strings.Contains(got, "TOPIC: Monopoly") {
		t.Fatalf("unexpected prompt:\n%s", got)
	}
	if strings.Contains(got, "Oligopoly") {
		t.Fatalf("default knowledge should be replaced")
	}
}

func TestPromptBuilder_BadKnowledgeFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewPromptBuilder("", filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPromptBuilder("", empty); err == nil {
		t.Fatal("expected error for empty knowledge")
	}
}
