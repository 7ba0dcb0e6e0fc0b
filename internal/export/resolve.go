package export

import (
	"fmt"
	"math"

	"github.com/heimdex/heimdex-editor/internal/library"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// Resolve turns timeline clips into EDL events. Each clip occupies its
// duration on the record track; the source range it consumes is that
// duration scaled by the clip speed.
func Resolve(clips []timeline.Clip) []ResolvedClip {
	out := make([]ResolvedClip, 0, len(clips))
	for _, c := range clips {
		name := SanitizeName(c.Title, maxClipNameLen)
		if name == "" {
			name = c.ID
		}
		speed := c.Speed
		if speed <= 0 {
			speed = timeline.DefaultSpeed
		}
		out = append(out, ResolvedClip{
			ClipName:  name,
			MediaPath: fmt.Sprintf("mock://%s/%s", c.Type, c.ID),
			Track:     trackFor(c.Type),
			StartMs:   0,
			EndMs:     secondsToMs(c.Duration * speed),
			RecordMs:  secondsToMs(c.Duration),
			Muted:     c.Muted,
		})
	}
	return out
}

// NormalizeTitle sanitizes a user supplied export title, falling back to
// DefaultTitle when nothing printable is left.
func NormalizeTitle(title string) string {
	t := SanitizeName(title, maxTitleLen)
	if t == "" {
		return DefaultTitle
	}
	return t
}

func trackFor(t library.MediaType) string {
	if t == library.MediaAudio {
		return "A"
	}
	return "V"
}

func secondsToMs(s float64) int {
	return int(math.Round(s * 1000))
}
