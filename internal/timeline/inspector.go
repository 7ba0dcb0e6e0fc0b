package timeline

import (
	"fmt"
	"strings"
)

func (m *Model) LoadSelection(id string) (ClipFields, error) {
	c, err := m.Clip(id)
	if err != nil {
		return ClipFields{}, err
	}
	return ClipFields{
		Title:  c.Title,
		Speed:  c.Speed,
		Volume: c.Volume,
		Muted:  c.Muted,
		Notes:  c.Notes,
	}, nil
}

// ValidateFields checks inspector input. A blank title is allowed and means
// "keep the current title".
func ValidateFields(f ClipFields) error {
	if !isFinite(f.Speed) || f.Speed < MinSpeed || f.Speed > MaxSpeed {
		return fmt.Errorf("%w: speed must be between %.2f and %.2f", ErrInvalidInput, MinSpeed, MaxSpeed)
	}
	if f.Volume < MinVolume || f.Volume > MaxVolume {
		return fmt.Errorf("%w: volume must be between %d and %d", ErrInvalidInput, MinVolume, MaxVolume)
	}
	return nil
}

func (m *Model) SaveClip(id string, f ClipFields) (Clip, error) {
	var out Clip
	err := m.mutate(func() error {
		c := m.find(id)
		if c == nil {
			return m.fail(id, "Select a clip to edit")
		}
		if err := ValidateFields(f); err != nil {
			m.status = "Invalid clip settings"
			return err
		}
		if title := strings.TrimSpace(f.Title); title != "" {
			c.Title = title
		}
		c.Speed = f.Speed
		c.Volume = f.Volume
		c.Muted = f.Muted
		c.Notes = f.Notes
		m.status = fmt.Sprintf("Saved %s", c.Title)
		out = *c
		return nil
	})
	return out, err
}
