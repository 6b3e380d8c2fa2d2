package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadR(t *testing.T) {
	assert.Equal(t, "hi        ", padR("hi", 10))
	assert.Equal(t, "toolongstring", padR("toolongstring", 5))
	assert.Equal(t, "x", padR("x", 0))
}

func TestTrimErrStartsAtTransportCause(t *testing.T) {
	s := "toncenter request failed: Get \"https://toncenter.com\": dial tcp 1.2.3.4:443: i/o timeout"
	assert.True(t, strings.HasPrefix(trimErr(s), "dial tcp"))
}

func TestTrimErrTruncatesLongMessages(t *testing.T) {
	result := trimErr(strings.Repeat("я", 50))
	assert.Equal(t, 41, len([]rune(result)))
	assert.True(t, strings.HasSuffix(result, "…"))
}

func TestTrimErrShortUnchanged(t *testing.T) {
	assert.Equal(t, "short error", trimErr("short error"))
}

func TestConfirmFrom(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, ConfirmFrom(strings.NewReader(tt.in), &out, "Delete key?"), "input %q", tt.in)
		assert.Contains(t, out.String(), "[y/N]")
	}
}

func TestSpinnerWritesToGivenWriter(t *testing.T) {
	var out bytes.Buffer
	s := NewSpinnerTo(&out, "fetching")
	s.Start()
	s.StopWithMsg("done")
	s.Stop()
	assert.Contains(t, out.String(), "fetching")
	assert.True(t, strings.HasSuffix(out.String(), "done\n"))
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := NewSpinnerTo(&bytes.Buffer{}, "idle")
	s.Stop()
}
