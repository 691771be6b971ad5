package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToggleVariation(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		s := NewSelection("0")
		out, ok := ToggleVariation(s, "10001")
		assert.True(t, ok)
		assert.Equal(t, []string{"0", "10001"}, out.IDs())
		assert.Len(t, s, 1, "input must not be mutated")
	})

	t.Run("remove", func(t *testing.T) {
		out, ok := ToggleVariation(NewSelection("0", "10001"), "0")
		assert.True(t, ok)
		assert.Equal(t, []string{"10001"}, out.IDs())
	})

	t.Run("refuse last", func(t *testing.T) {
		s := NewSelection("0")
		out, ok := ToggleVariation(s, "0")
		assert.False(t, ok)
		assert.True(t, out.Has("0"))
	})
}

func TestChartStateResetsZoom(t *testing.T) {
	zoom := &TimeExtent{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	state := ChartState{Granularity: DayGranularity, Selection: NewSelection("0")}.WithZoom(zoom)
	assert.NotNil(t, state.Zoom)

	// The zoom is copied so later edits do not leak in
	zoom.Start = zoom.End
	assert.False(t, state.Zoom.IsDegenerate())

	assert.Nil(t, state.WithGranularity(WeekGranularity).Zoom)
	assert.Nil(t, state.WithSelection(NewSelection("0", "10001")).Zoom)
	assert.NotNil(t, state.Zoom, "original state keeps its zoom")
}

func TestTimeExtent(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := TimeExtent{Start: start, End: start.Add(48 * time.Hour)}
	assert.Equal(t, 48*time.Hour, e.Span())
	assert.False(t, e.IsDegenerate())
	assert.True(t, TimeExtent{Start: start, End: start}.IsDegenerate())
	assert.True(t, e.Equal(TimeExtent{Start: start.In(time.Local), End: e.End}))
}

func TestDimensionsInner(t *testing.T) {
	d := Dimensions{Width: 800, Height: 400, Margin: DefaultMargin}
	assert.InDelta(t, 749.0, d.InnerWidth(), 1e-9)
	assert.InDelta(t, 300.0, d.InnerHeight(), 1e-9)
}
