package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, true, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("cmd", "encode"))
	ctx = AppendCtx(ctx, slog.Int("width", 2))
	log.InfoContext(ctx, "encoded", "bytes", 69)
	log.DebugContext(ctx, "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "encoded", rec["msg"])
	assert.Equal(t, "encode", rec["cmd"])
	assert.EqualValues(t, 2, rec["width"])
	assert.EqualValues(t, 69, rec["bytes"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := Logger(&buf, false, slog.LevelDebug).With("pkg", "png").WithGroup("img")
	log.DebugContext(AppendCtx(nil, slog.String("id", "abc")), "chunk", "type", "IHDR")
	out := buf.String()
	assert.Contains(t, out, "msg=chunk")
	assert.Contains(t, out, "pkg=png")
	assert.Contains(t, out, "img.type=IHDR")
	assert.Contains(t, out, "abc")
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.log")
	w := RotatingFile(path, 0)
	log := Logger(w, false, slog.LevelInfo)
	log.Info("hello")
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=hello")
}
