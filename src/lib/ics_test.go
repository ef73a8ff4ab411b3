package lib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:lecture-123@uni.example\r\n" +
	"SUMMARY:Linear Algebra\\, Week 3\r\n" +
	"DESCRIPTION:Bring the problem\r\n sheet\r\n" +
	"LOCATION:Room A-101\r\n" +
	"DTSTART:20250314T100000Z\r\n" +
	"DTEND:20250314T113000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"SUMMARY:Open Day\r\n" +
	"DTSTART;VALUE=DATE:20250401\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS(t *testing.T) {
	events, err := ParseICS([]byte(sampleICS))
	assert.NoError(t, err)
	assert.Len(t, events, 2)

	ev := events[0]
	assert.Equal(t, "lecture-123@uni.example", ev.UID)
	// Escaped comma is unescaped.
	assert.Equal(t, "Linear Algebra, Week 3", ev.Summary)
	// Folded line is unfolded.
	assert.Equal(t, "Bring the problemsheet", ev.Description)
	assert.Equal(t, "Room A-101", ev.Location)
	assert.Equal(t, time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2025, 3, 14, 11, 30, 0, 0, time.UTC), ev.End)

	// Date-only start becomes midnight; missing DTEND defaults to +1h.
	open := events[1]
	assert.Empty(t, open.UID)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), open.Start)
	assert.Equal(t, open.Start.Add(time.Hour), open.End)
}

func TestParseICSSkipsEventWithoutStart(t *testing.T) {
	ics := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nSUMMARY:No start\nEND:VEVENT\nEND:VCALENDAR\n"
	events, err := ParseICS([]byte(ics))
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseICSEmpty(t *testing.T) {
	_, err := ParseICS([]byte(""))
	assert.Error(t, err)
}

func TestUnfoldICSLines(t *testing.T) {
	lines := unfoldICSLines("A:1\r\nB:2\r\n continued\r\n\tmore\r\n")
	assert.Equal(t, []string{"A:1", "B:2continuedmore"}, lines)
}

func TestSplitICSProperty(t *testing.T) {
	name, value, ok := splitICSProperty("DTSTART;TZID=Europe/Berlin:20250314T100000")
	assert.True(t, ok)
	assert.Equal(t, "DTSTART", name)
	assert.Equal(t, "20250314T100000", value)

	_, _, ok = splitICSProperty("no colon here")
	assert.False(t, ok)
}
