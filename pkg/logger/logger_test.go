package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_OnceAndFields(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	l := Init(Options{Level: "info", Service: "gsrs", Output: &buf})
	Init(Options{Level: "debug", Output: &bytes.Buffer{}}) // ignored

	l.Debug().Msg("hidden")
	got := Get()
	got.Info().Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "gsrs" || entry["message"] != "shown" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestGet_BeforeInitIsNop(t *testing.T) {
	Reset()
	l := Get()
	l.Info().Msg("discarded")
}
