package gameclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseConfiguration(t *testing.T) {
	t.Run("full notation", func(t *testing.T) {
		config, err := ParseConfiguration("60s+1s(5s)")

		require.NoError(t, err)
		require.Equal(t, Configuration{
			TotalTime: 60 * time.Second,
			Increment: time.Second,
			Delay:     5 * time.Second,
		}, config)
	})

	t.Run("total only", func(t *testing.T) {
		config, err := ParseConfiguration("90s")

		require.NoError(t, err)
		require.Equal(t, Configuration{TotalTime: 90 * time.Second}, config)
	})

	t.Run("total with delay", func(t *testing.T) {
		config, err := ParseConfiguration("1m(10s)")

		require.NoError(t, err)
		require.Equal(t, Configuration{TotalTime: time.Minute, Delay: 10 * time.Second}, config)
	})

	t.Run("infinite", func(t *testing.T) {
		config, err := ParseConfiguration("inf")

		require.NoError(t, err)
		require.True(t, config.IsInfinite())
	})

	t.Run("garbage", func(t *testing.T) {
		for _, s := range []string{"", "soon", "60s+", "60s(", "60s(5s"} {
			_, err := ParseConfiguration(s)
			require.Error(t, err, "input %q", s)
		}
	})

	t.Run("string round-trip", func(t *testing.T) {
		for _, s := range []string{"1m0s", "1m0s+1s", "1m0s+1s(5s)", "inf", "inf+1s"} {
			config, err := ParseConfiguration(s)
			require.NoError(t, err)
			require.Equal(t, s, config.String())
		}
	})
}

func TestConfigurationYAML(t *testing.T) {
	t.Run("compact scalar", func(t *testing.T) {
		var config Configuration
		require.NoError(t, yaml.Unmarshal([]byte(`"60s+1s(5s)"`), &config))

		require.Equal(t, 60*time.Second, config.TotalTime)
		require.Equal(t, time.Second, config.Increment)
		require.Equal(t, 5*time.Second, config.Delay)
	})

	t.Run("mapping", func(t *testing.T) {
		var config Configuration
		require.NoError(t, yaml.Unmarshal([]byte("total_time: 30s\ndelay: 2s\n"), &config))

		require.Equal(t, 30*time.Second, config.TotalTime)
		require.Equal(t, 2*time.Second, config.Delay)
	})

	t.Run("invalid scalar", func(t *testing.T) {
		var config Configuration
		require.Error(t, yaml.Unmarshal([]byte(`"whenever"`), &config))
	})
}

func TestGameClockMeasure(t *testing.T) {
	t.Run("time inside the delay is free", func(t *testing.T) {
		clock := NewGameClock(Configuration{TotalTime: time.Second, Delay: time.Second})

		clock.Measure(func() { time.Sleep(10 * time.Millisecond) })

		require.Equal(t, time.Second, clock.Remaining())
		require.False(t, clock.Expired())
	})

	t.Run("excess over the delay is deducted", func(t *testing.T) {
		clock := NewGameClock(Configuration{TotalTime: time.Second})

		clock.Measure(func() { time.Sleep(20 * time.Millisecond) })

		require.Less(t, clock.Remaining(), time.Second)
		require.False(t, clock.Expired())
	})

	t.Run("increment is credited while alive", func(t *testing.T) {
		clock := NewGameClock(Configuration{TotalTime: time.Second, Increment: time.Second, Delay: time.Second})

		clock.Measure(func() {})

		require.Equal(t, 2*time.Second, clock.Remaining())
	})

	t.Run("no increment after expiry", func(t *testing.T) {
		clock := NewGameClock(Configuration{TotalTime: time.Millisecond, Increment: time.Minute})

		clock.Measure(func() { time.Sleep(20 * time.Millisecond) })

		require.True(t, clock.Expired())
		require.LessOrEqual(t, clock.Remaining(), time.Duration(0))
	})

	t.Run("infinite clock never expires", func(t *testing.T) {
		clock := NewGameClock(Configuration{TotalTime: Infinite})

		clock.Measure(func() { time.Sleep(5 * time.Millisecond) })

		require.False(t, clock.Expired())
		require.Equal(t, Infinite, clock.Remaining())
	})
}
