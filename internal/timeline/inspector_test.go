package timeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSelection(t *testing.T) {
	m, a, _ := newSeededModel(t)

	f, err := m.LoadSelection(a.ID)
	require.NoError(t, err)
	assert.Equal(t, ClipFields{Title: "Downtown Walk", Speed: 1, Volume: 80}, f)

	_, err = m.LoadSelection("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveClip(t *testing.T) {
	m, a, _ := newSeededModel(t)

	c, err := m.SaveClip(a.ID, ClipFields{Title: "  Opening  ", Speed: 1.25, Volume: 55, Muted: true, Notes: "fade in"})
	require.NoError(t, err)

	assert.Equal(t, "Opening", c.Title)
	assert.Equal(t, 1.25, c.Speed)
	assert.Equal(t, 55, c.Volume)
	assert.True(t, c.Muted)
	assert.Equal(t, "fade in", c.Notes)
	assert.Equal(t, 24.0, c.Duration, "inspector never touches duration")
	assert.Equal(t, "Saved Opening", m.Status())
}

func TestSaveClip_BlankTitleKeepsExisting(t *testing.T) {
	m, a, _ := newSeededModel(t)

	c, err := m.SaveClip(a.ID, ClipFields{Title: "   ", Speed: 1, Volume: 80})
	require.NoError(t, err)
	assert.Equal(t, "Downtown Walk", c.Title)
}

func TestSaveClip_Invalid(t *testing.T) {
	m, a, _ := newSeededModel(t)

	tests := []struct {
		name   string
		fields ClipFields
	}{
		{name: "zero speed", fields: ClipFields{Speed: 0, Volume: 50}},
		{name: "speed too high", fields: ClipFields{Speed: 8, Volume: 50}},
		{name: "nan speed", fields: ClipFields{Speed: math.NaN(), Volume: 50}},
		{name: "negative volume", fields: ClipFields{Speed: 1, Volume: -1}},
		{name: "volume too high", fields: ClipFields{Speed: 1, Volume: 101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.SaveClip(a.ID, tt.fields)
			assert.ErrorIs(t, err, ErrInvalidInput)

			c, _ := m.Clip(a.ID)
			assert.Equal(t, 1.0, c.Speed, "clip unchanged after rejected save")
			assert.Equal(t, 80, c.Volume)
		})
	}
}

func TestSaveClip_NotFound(t *testing.T) {
	m, _, _ := newSeededModel(t)

	_, err := m.SaveClip("missing", ClipFields{Speed: 1, Volume: 80})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Select a clip to edit", m.Status())
}

func TestValidateFields_Bounds(t *testing.T) {
	assert.NoError(t, ValidateFields(ClipFields{Speed: MinSpeed, Volume: MinVolume}))
	assert.NoError(t, ValidateFields(ClipFields{Speed: MaxSpeed, Volume: MaxVolume}))
}
