package ssmcp

import (
	"context"
	"strings"
)

// SubtitleFetcher retrieves the transcript of a video.
type SubtitleFetcher interface {
	// Subtitles returns the transcript of the video at url, one cue per
	// line prefixed with its start timestamp.
	// Returns ESUBTITLE when no usable subtitles exist.
	Subtitles(ctx context.Context, url string) (string, error)
}

// Cue is one caption segment.
type Cue struct {
	Start string
	Text  string
}

// DeduplicateCues removes the repetition of "rolling" automatic captions,
// where each segment repeats the tail of the previous one before adding new
// words, and returns one "[start] text" line per remaining cue.
func DeduplicateCues(cues []Cue) []string {
	var lines []string
	prev := ""

	for i, cue := range cues {
		// A cue fully contained at the start of the next one is an
		// intermediate state of the same burst.
		if i+1 < len(cues) && strings.HasPrefix(cues[i+1].Text, cue.Text) {
			continue
		}

		text := cue.Text
		if prev != "" {
			if n := wordOverlap(prev, cue.Text); n > 0 {
				text = strings.Join(strings.Fields(cue.Text)[n:], " ")
				if strings.TrimSpace(text) == "" {
					continue
				}
			}
		}

		lines = append(lines, "["+cue.Start+"] "+text)
		prev = cue.Text
	}

	return lines
}

// wordOverlap returns the largest n such that the last n words of a equal
// the first n words of b.
func wordOverlap(a, b string) int {
	wa := strings.Fields(a)
	wb := strings.Fields(b)

	best := 0
	for n := 1; n <= min(len(wa), len(wb)); n++ {
		if equalWords(wa[len(wa)-n:], wb[:n]) {
			best = n
		}
	}
	return best
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
