package export

import (
	"fmt"
	"math"
	"strings"
)

const reelName = "AX"

// timebase converts milliseconds to SMPTE timecode. Drop-frame bases skip
// frame numbers at the start of every minute except each tenth so that the
// timecode tracks wall-clock time.
type timebase struct {
	rate    float64
	nominal int
	drop    int
}

func newTimebase(frameRate float64) timebase {
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		frameRate = DefaultFrameRate
	}
	tb := timebase{rate: frameRate, nominal: int(math.Round(frameRate))}
	switch {
	case math.Abs(frameRate-29.97) < 0.01:
		tb.drop = 2
	case math.Abs(frameRate-59.94) < 0.01:
		tb.drop = 4
	}
	if tb.drop == 0 {
		tb.rate = float64(tb.nominal)
	}
	return tb
}

func (tb timebase) dropFrame() bool {
	return tb.drop > 0
}

func (tb timebase) frames(ms int) int {
	return int(math.Round(float64(ms) * tb.rate / 1000.0))
}

func (tb timebase) timecode(ms int) string {
	n := tb.frames(ms)
	sep := ":"
	if tb.dropFrame() {
		sep = ";"
		perMinute := tb.nominal*60 - tb.drop
		perTen := tb.nominal*600 - 9*tb.drop
		tens, rem := n/perTen, n%perTen
		n += 9 * tb.drop * tens
		if rem > tb.drop {
			n += tb.drop * ((rem - tb.drop) / perMinute)
		}
	}

	fps := tb.nominal
	secs := n / fps
	return fmt.Sprintf("%02d:%02d:%02d%s%02d", secs/3600, secs/60%60, secs%60, sep, n%fps)
}

// GenerateEDL renders clips as a CMX3600 edit decision list. Events are laid
// end to end on the record side in clip order; a clip whose source range
// differs from its record length gets an M2 motion line.
func GenerateEDL(clips []ResolvedClip, title string, frameRate float64) string {
	tb := newTimebase(frameRate)

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	if tb.dropFrame() {
		b.WriteString("FCM: DROP FRAME\n")
	} else {
		b.WriteString("FCM: NON-DROP FRAME\n")
	}
	b.WriteString("\n")

	recordMs := 0
	for i, clip := range clips {
		length := clip.RecordMs
		if length <= 0 {
			length = clip.EndMs - clip.StartMs
		}
		track := clip.Track
		if track == "" {
			track = "V"
		}
		srcIn := tb.timecode(clip.StartMs)

		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n",
			i+1, reelName, track,
			srcIn, tb.timecode(clip.EndMs),
			tb.timecode(recordMs), tb.timecode(recordMs+length))
		if src := clip.EndMs - clip.StartMs; length > 0 && src != length {
			speedFPS := tb.rate * float64(src) / float64(length)
			fmt.Fprintf(&b, "M2   %-8s %05.1f     %s\n", reelName, speedFPS, srcIn)
		}
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", clip.ClipName)
		fmt.Fprintf(&b, "* MEDIA PATH:  %s\n", clip.MediaPath)
		if clip.Muted {
			b.WriteString("* AUDIO MUTED\n")
		}

		recordMs += length
	}

	return b.String()
}
