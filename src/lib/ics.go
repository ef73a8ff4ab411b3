package lib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ICSEvent is one parsed VEVENT from a calendar feed or upload.
type ICSEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

var icsHTTPClient = &http.Client{Timeout: 60 * time.Second}

func FetchICS(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := icsHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching calendar feed: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ParseICS extracts the VEVENT components from raw ICS bytes. Date-only
// values become midnight datetimes; a missing DTEND defaults to one hour
// after DTSTART. Events without DTSTART are skipped.
func ParseICS(data []byte) ([]ICSEvent, error) {
	lines := unfoldICSLines(string(data))
	if len(lines) == 0 {
		return nil, errors.New("empty calendar")
	}

	var events []ICSEvent
	var cur map[string]string
	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			cur = map[string]string{}
		case line == "END:VEVENT":
			if cur == nil {
				continue
			}
			ev, err := icsEventFromProps(cur)
			if err != nil {
				log.Printf("[ics] Skipping event: %s\n", err.Error())
			} else {
				events = append(events, ev)
			}
			cur = nil
		default:
			if cur == nil {
				continue
			}
			name, value, ok := splitICSProperty(line)
			if ok {
				cur[name] = value
			}
		}
	}
	return events, nil
}

// unfoldICSLines joins RFC 5545 folded lines (continuations start with a
// space or tab) and drops the line endings.
func unfoldICSLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitICSProperty splits "NAME;PARAM=X:value" into the bare property name
// and its value. Parameters are dropped except for their effect on date
// parsing, which parseICSTime handles from the value shape alone.
func splitICSProperty(line string) (name, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	name = line[:idx]
	value = line[idx+1:]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return strings.ToUpper(name), value, true
}

func icsEventFromProps(props map[string]string) (ICSEvent, error) {
	startRaw, ok := props["DTSTART"]
	if !ok {
		return ICSEvent{}, errors.New("missing DTSTART")
	}
	start, err := parseICSTime(startRaw)
	if err != nil {
		return ICSEvent{}, fmt.Errorf("bad DTSTART %q: %w", startRaw, err)
	}
	end := start.Add(1 * time.Hour)
	if endRaw, ok := props["DTEND"]; ok {
		parsed, err := parseICSTime(endRaw)
		if err != nil {
			return ICSEvent{}, fmt.Errorf("bad DTEND %q: %w", endRaw, err)
		}
		end = parsed
	}
	return ICSEvent{
		UID:         props["UID"],
		Summary:     unescapeICSText(props["SUMMARY"]),
		Description: unescapeICSText(props["DESCRIPTION"]),
		Location:    unescapeICSText(props["LOCATION"]),
		Start:       start,
		End:         end,
	}, nil
}

func parseICSTime(value string) (time.Time, error) {
	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

func unescapeICSText(s string) string {
	r := strings.NewReplacer("\\n", "\n", "\\N", "\n", "\\,", ",", "\\;", ";", "\\\\", "\\")
	return r.Replace(s)
}
