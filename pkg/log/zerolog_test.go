package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mserrors "github.com/YuminosukeSato/modelselect/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologProvider_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewZerologProvider(buf, LevelInfo)
	logger := p.GetLoggerWithName("optimization")

	logger.Debug("hidden")
	logger.Info("candidate evaluated", CandidateKey, 3, ErrorValueKey, 0.5)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "candidate evaluated", entries[0]["message"])
	assert.Equal(t, "optimization", entries[0][ComponentKey])
	assert.Equal(t, 3.0, entries[0][CandidateKey])

	p.SetLevel(LevelDebug)
	assert.True(t, logger.Enabled(context.Background(), LevelDebug))
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestZerologProvider_ErrorFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerologProvider(buf, LevelDebug).GetLogger().With(FoldsKey, 5)

	err := mserrors.NewValidationError("folds", "must be at least 2", 1)
	logger.Error("cross-validation failed", err, FoldKey, 0)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Contains(t, e[ErrAttrKey], "must be at least 2")
	assert.Equal(t, 5.0, e[FoldsKey])
	assert.NotEmpty(t, e[StacktraceKey])
	details, ok := e[ErrAttrKey+"_details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ValidationError", details["type"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.True(t, mserrors.IsConfigurationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupRoutesWarnings(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Setup(buf, "info", "json"))
	defer SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelWarn))
	defer mserrors.SetZerologWarnFunc(nil)

	mserrors.Warn(mserrors.NewConvergenceWarning("SequentialModelBasedOptimizer", 4, "no unseen candidate"))
	assert.Contains(t, buf.String(), "no unseen candidate")
	assert.Contains(t, buf.String(), "ConvergenceWarning")

	assert.Error(t, Setup(buf, "info", "xml"))
}

func TestTestLogger(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	child := logger.With(RunIDKey, "abc")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child.Info("fold done", FoldKey, i)
		}(i)
	}
	wg.Wait()
	child.Debug("dropped")

	assert.Equal(t, 8, logger.CountMessage("fold done"))
	assert.True(t, logger.ContainsField(RunIDKey, "abc"))
	assert.True(t, logger.ContainsField(FoldKey, 7.0))
	assert.False(t, logger.ContainsMessage("dropped"))
}

func TestTestLoggerProvider(t *testing.T) {
	p, buf := NewTestLoggerProvider(LevelDebug)
	p.GetLoggerWithName("sampling").Warn("stratum adjusted")
	assert.Contains(t, buf.String(), `"ml.component":"sampling"`)
}
