package export

// Request is the body of an export request. OutputDir is optional; when set,
// the finished EDL is also written there as <title>.edl.
type Request struct {
	Title     string  `json:"title"`
	FrameRate float64 `json:"frame_rate"`
	OutputDir string  `json:"output_dir,omitempty"`
}

// ResolvedClip is one EDL event: a source range placed on the record track.
type ResolvedClip struct {
	ClipName  string
	MediaPath string
	Track     string
	StartMs   int
	EndMs     int
	RecordMs  int
	Muted     bool
}

// Payload is what an export row carries from request time to the runner.
type Payload struct {
	FrameRate float64        `json:"frame_rate"`
	OutputDir string         `json:"output_dir,omitempty"`
	Clips     []ResolvedClip `json:"clips"`
}

const (
	DefaultTitle     = "heimdex_export"
	DefaultFrameRate = 30.0

	maxTitleLen    = 120
	maxClipNameLen = 160
)
