package service

import (
	"bytes"
	_ "embed"
	"fmt"

	"ecostudy/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed tips.yaml
var tipsYAML []byte

// TipsService serves the static exam tips. The list is read-only after load.
type TipsService struct {
	tips []models.Tip
}

// LoadTips decodes the embedded tip cards.
func LoadTips() ([]models.Tip, error) {
	return parseTips(tipsYAML)
}

func parseTips(raw []byte) ([]models.Tip, error) {
	var tips []models.Tip
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&tips); err != nil {
		return nil, fmt.Errorf("decode tips: %w", err)
	}
	for i, t := range tips {
		switch t.Type {
		case "graph", "formula":
		case "matrix":
			if t.Data == nil || len(t.Data.Cells) == 0 {
				return nil, fmt.Errorf("tip %d: matrix tip without cells", t.ID)
			}
		default:
			return nil, fmt.Errorf("tip %d (#%d): unknown type %q", t.ID, i, t.Type)
		}
	}
	return tips, nil
}

func NewTipsService(tips []models.Tip) *TipsService {
	return &TipsService{tips: tips}
}

// ListTips returns a copy so callers cannot change the shared list.
func (s *TipsService) ListTips() []models.Tip {
	out := make([]models.Tip, len(s.tips))
	copy(out, s.tips)
	return out
}
