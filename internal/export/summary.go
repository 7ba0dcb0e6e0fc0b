package export

import (
	"fmt"
	"strings"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

const summaryHeader = "Export queued:"

// BuildSummary renders the human readable export notice, one numbered line
// per clip.
func BuildSummary(s timeline.Summary) string {
	lines := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		line := fmt.Sprintf("%d. %s (%.1fs @ %.2fx)", item.Index, item.Title, item.Duration, item.Speed)
		if item.Muted {
			line += " [muted]"
		}
		lines = append(lines, line)
	}
	return summaryHeader + "\n\n" + strings.Join(lines, "\n")
}
