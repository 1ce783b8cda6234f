package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/joodock/internal/hotzone"
)

func testReport() ZoneReport {
	return buildZoneReport(hotzone.Size{Width: 1920, Height: 1080}, hotzone.DefaultSettings())
}

func TestBuildZoneReport(t *testing.T) {
	r := testReport()

	assert.Equal(t, RectReport{Left: 810, Top: 0, Right: 1110, Bottom: 50}, r.Hover)
	assert.Equal(t, RectReport{Left: 800, Top: 5, Right: 1120, Bottom: 455}, r.Popup)
	assert.Equal(t, RectReport{Left: 770, Top: 0, Right: 1150, Bottom: 485}, r.Safe)
	assert.Equal(t, int64(300), r.ShowDelayMS)
	assert.Equal(t, int64(2000), r.HideDelayMS)
	assert.Equal(t, int64(100), r.PollMS)
}

func TestWriteZoneReport(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeZoneReport(&buf, testReport(), "json"))

		var got ZoneReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, testReport(), got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeZoneReport(&buf, testReport(), "yaml"))
		assert.Contains(t, buf.String(), "show_delay_ms: 300")

		var got ZoneReport
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, 1920, got.Screen.Width)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeZoneReport(&buf, testReport(), "text"))
		assert.Contains(t, buf.String(), "[810,0]-[1110,50]")
		assert.Contains(t, buf.String(), "[770,0]-[1150,485]")
		assert.NotContains(t, buf.String(), "backend")
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, writeZoneReport(&bytes.Buffer{}, testReport(), "xml"))
	})
}
