package youtube

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/ssmcp"
)

// parseTTML returns the non-empty cues of a TTML document in order.
func parseTTML(data []byte) ([]ssmcp.Cue, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}

	var cues []ssmcp.Cue
	for _, p := range doc.FindElements("//p") {
		text := strings.Join(strings.Fields(elementText(p)), " ")
		if text == "" {
			continue
		}
		start, err := formatClock(p.SelectAttrValue("begin", ""))
		if err != nil {
			return nil, err
		}
		cues = append(cues, ssmcp.Cue{Start: start, Text: text})
	}
	return cues, nil
}

// elementText concatenates the character data under el. Line breaks
// become spaces.
func elementText(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			if t.Tag == "br" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(elementText(t))
		}
	}
	return b.String()
}

// formatClock normalizes a TTML time expression to HH:MM:SS.mmm.
// Clock times ("00:01:02.500") and offsets in seconds ("62.5s") are
// accepted.
func formatClock(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("cue without begin time")
	}

	var d time.Duration
	if secs, ok := strings.CutSuffix(v, "s"); ok && !strings.Contains(secs, ":") {
		f, err := strconv.ParseFloat(secs, 64)
		if err != nil {
			return "", fmt.Errorf("invalid time %q", v)
		}
		d = time.Duration(f * float64(time.Second))
	} else {
		parts := strings.Split(v, ":")
		if len(parts) != 3 {
			return "", fmt.Errorf("invalid time %q", v)
		}
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		s, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return "", fmt.Errorf("invalid time %q", v)
		}
		d = time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s*float64(time.Second))
	}

	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms), nil
}
