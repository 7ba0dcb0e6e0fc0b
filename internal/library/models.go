// Package library provides the catalog of source clips that can be placed on
// the timeline.
package library

import (
	"fmt"
	"strings"
)

type MediaType string

const (
	MediaVideo MediaType = "Video"
	MediaAudio MediaType = "Audio"
	MediaText  MediaType = "Text"
)

const (
	MinDuration  = 2.0
	DefaultColor = "#6f6bff"
)

// ParseMediaType is case-insensitive. An empty string defaults to Video.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "video":
		return MediaVideo, nil
	case "audio":
		return MediaAudio, nil
	case "text":
		return MediaText, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

type Record struct {
	Title    string    `json:"title" yaml:"title"`
	Duration float64   `json:"duration" yaml:"duration"`
	Color    string    `json:"color" yaml:"color"`
	Type     MediaType `json:"type" yaml:"type"`
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if r.Duration < MinDuration {
		return fmt.Errorf("%s: duration must be at least %.1fs", r.Title, MinDuration)
	}
	if _, err := ParseMediaType(string(r.Type)); err != nil {
		return fmt.Errorf("%s: %w", r.Title, err)
	}
	return nil
}

func Default() []Record {
	return []Record{
		{Title: "Downtown Walk", Duration: 24, Color: "#6f6bff", Type: MediaVideo},
		{Title: "Neon Intro", Duration: 12, Color: "#ff5d9e", Type: MediaText},
		{Title: "Cafe B-Roll", Duration: 18, Color: "#4dc7ff", Type: MediaVideo},
		{Title: "Voice Over", Duration: 31, Color: "#66d385", Type: MediaAudio},
	}
}
