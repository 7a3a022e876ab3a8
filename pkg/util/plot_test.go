package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moobench/anymop/pkg/framework"
)

func TestPlotFronts(t *testing.T) {
	series := []FrontSeries{
		{Name: "gsemo", Points: []framework.ObjectiveSpacePoint{{0.2, 0.8}, {0.5, 0.5}, {0.8, 0.2}}},
		{Name: "pls", Points: []framework.ObjectiveSpacePoint{{0.3, 0.6}, {0.6, 0.3}}},
	}

	var buf bytes.Buffer
	require.NoError(t, PlotFronts(&buf, "bench on rmnk_0_2_8_1", series))

	html := buf.String()
	assert.Contains(t, html, "bench on rmnk_0_2_8_1")
	assert.Contains(t, html, "gsemo")
	assert.Contains(t, html, "pls")
	assert.Contains(t, html, "echarts")
}

func TestPlotFrontsRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PlotFronts(&buf, "empty", nil))
	assert.Error(t, PlotFronts(&buf, "3d", []FrontSeries{
		{Name: "x", Points: []framework.ObjectiveSpacePoint{{1, 2, 3}}},
	}))
}

func TestPlotFrontsDoesNotMutateInput(t *testing.T) {
	points := []framework.ObjectiveSpacePoint{{0.9, 0.1}, {0.1, 0.9}}
	var buf bytes.Buffer
	require.NoError(t, PlotFronts(&buf, "order", []FrontSeries{{Name: "a", Points: points}}))

	assert.Equal(t, framework.ObjectiveSpacePoint{0.9, 0.1}, points[0])
	assert.Equal(t, framework.ObjectiveSpacePoint{0.1, 0.9}, points[1])
}
