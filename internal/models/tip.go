package models

// Tip is one exam-tip card. Only the fields matching Type are set.
type Tip struct {
	ID        int        `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Type      string     `json:"type" yaml:"type"` // graph | matrix | formula
	Concept   string     `json:"concept" yaml:"concept"`
	Caption   string     `json:"caption" yaml:"caption"`
	Data      *TipMatrix `json:"data,omitempty" yaml:"data,omitempty"`
	Formula   string     `json:"formula,omitempty" yaml:"formula,omitempty"`
	Details   string     `json:"details,omitempty" yaml:"details,omitempty"`
	Duration  string     `json:"duration" yaml:"duration"`
	VideoURL  string     `json:"videoUrl" yaml:"videoUrl"`
	StartTime int        `json:"startTime" yaml:"startTime"` // seconds
}

// TipMatrix is the payoff matrix shown by "matrix" tips.
type TipMatrix struct {
	FirmA string          `json:"firmA" yaml:"firmA"`
	FirmB string          `json:"firmB" yaml:"firmB"`
	Cells []TipMatrixCell `json:"cells" yaml:"cells"`
}

type TipMatrixCell struct {
	A    string `json:"a" yaml:"a"`
	B    string `json:"b" yaml:"b"`
	ValA string `json:"valA" yaml:"valA"`
	ValB string `json:"valB" yaml:"valB"`
}
