package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRuns(t *testing.T) {
	speedOver := func(samples []Sample, limit float64) func(int) bool {
		return func(i int) bool { return samples[i].Speed > limit }
	}
	constLabel := func(string) func(int) string {
		return func(int) string { return "SEC" }
	}

	t.Run("emits one interval per contiguous qualifying run", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 0, 40, ""},
			{1, 20, 55, ""},
			{2, 40, 60, ""},
			{3, 60, 45, ""},
			{4, 80, 52, ""},
			{5, 100, 48, ""},
		})

		runs := GroupRuns(samples, speedOver(samples, 50), constLabel("SEC"), func(i int) float64 { return samples[i].Speed })

		require.Len(t, runs, 2)
		assert.Equal(t, 1, runs[0].StartIndex)
		assert.Equal(t, 2, runs[0].EndIndex)
		assert.Equal(t, 55.0, runs[0].Min)
		assert.Equal(t, 60.0, runs[0].Max)
		assert.Equal(t, 4, runs[1].StartIndex)
		assert.Equal(t, 4, runs[1].EndIndex)
	})

	t.Run("splits when the label changes", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 0, 60, ""},
			{1, 20, 61, ""},
			{2, 40, 62, ""},
			{3, 60, 63, ""},
		})
		labels := []string{"A", "A", "B", "B"}

		runs := GroupRuns(samples,
			func(int) bool { return true },
			func(i int) string { return labels[i] },
			func(i int) float64 { return samples[i].Speed },
		)

		require.Len(t, runs, 2)
		assert.Equal(t, "A", runs[0].Label)
		assert.Equal(t, "B", runs[1].Label)
		assert.Equal(t, 1, runs[0].EndIndex)
		assert.Equal(t, 2, runs[1].StartIndex)
	})

	t.Run("splits on a gap over ten seconds", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 0, 60, ""},
			{5, 100, 61, ""},
			{20, 400, 62, ""},
		})

		runs := GroupRuns(samples, speedOver(samples, 50), constLabel("SEC"), func(i int) float64 { return samples[i].Speed })

		require.Len(t, runs, 2)
		assert.Equal(t, 1, runs[0].EndIndex)
		assert.Equal(t, 2, runs[1].StartIndex)
	})

	t.Run("partitions qualifying samples exactly", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 0, 55, ""}, {1, 0, 45, ""}, {2, 0, 58, ""}, {3, 0, 61, ""},
			{4, 0, 30, ""}, {5, 0, 52, ""}, {18, 0, 53, ""}, {19, 0, 49, ""},
		})
		qualifies := speedOver(samples, 50)

		runs := GroupRuns(samples, qualifies, constLabel("SEC"), func(i int) float64 { return samples[i].Speed })

		covered := make(map[int]int)
		lastEnd := -1
		for _, r := range runs {
			assert.GreaterOrEqual(t, r.StartIndex, 0)
			assert.LessOrEqual(t, r.StartIndex, r.EndIndex)
			assert.Greater(t, r.StartIndex, lastEnd, "intervals must be ordered and non-overlapping")
			lastEnd = r.EndIndex
			for i := r.StartIndex; i <= r.EndIndex; i++ {
				covered[i]++
			}
		}
		for i := range samples {
			if qualifies(i) {
				assert.Equal(t, 1, covered[i], "qualifying sample %d must appear in exactly one interval", i)
			} else {
				assert.Zero(t, covered[i], "non-qualifying sample %d must not be covered", i)
			}
		}
	})
}
