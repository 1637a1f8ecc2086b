package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
		wantInfo  bool
	}{
		{log.DebugLevel, true, true},
		{log.InfoLevel, false, true},
		{log.WarnLevel, false, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := newLogger(&buf, tt.level)

		logger.Debug("planned frame")
		if got := strings.Contains(buf.String(), "planned frame"); got != tt.wantDebug {
			t.Errorf("level %v: debug written = %v, want %v", tt.level, got, tt.wantDebug)
		}

		buf.Reset()
		logger.Info("built topology")
		if got := strings.Contains(buf.String(), "built topology"); got != tt.wantInfo {
			t.Errorf("level %v: info written = %v, want %v", tt.level, got, tt.wantInfo)
		}
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("listening")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("log line %q does not start with an HH:MM:SS.ms timestamp", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("rendered svg, json")

	if !regexp.MustCompile(`rendered svg, json \(\d+ms\)`).MatchString(buf.String()) {
		t.Errorf("progress.done() output = %q, want message with elapsed ms", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	custom := newLogger(&bytes.Buffer{}, log.DebugLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"stored", withLogger(context.Background(), custom), custom},
		{"missing", context.Background(), log.Default()},
		{"wrong type", context.WithValue(context.Background(), loggerKey, "not a logger"), log.Default()},
		{"nil", nil, log.Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}
}
