// Package gameclock implements chess-clock style time control for matches:
// a total budget plus a per-move increment, with a per-move delay during
// which no time is deducted.
package gameclock

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Infinite is the sentinel for an unbounded clock. It is far below the
// duration overflow point so budget arithmetic on top of it stays sane.
const Infinite = time.Duration(math.MaxInt64 / 4)

// Configuration is one clock's settings. A match uses two: the startclock
// (preparation budget) and the playclock (per-ply budget).
type Configuration struct {
	TotalTime time.Duration `yaml:"total_time"`
	Increment time.Duration `yaml:"increment"`
	Delay     time.Duration `yaml:"delay"`
}

// DefaultStartclock is 60 seconds of preparation time.
func DefaultStartclock() Configuration {
	return Configuration{TotalTime: 60 * time.Second}
}

// DefaultPlayclock is 60 seconds total with a 10 second delay per move.
func DefaultPlayclock() Configuration {
	return Configuration{TotalTime: 60 * time.Second, Delay: 10 * time.Second}
}

// ParseConfiguration parses the compact clock notation
// "total+increment(delay)", e.g. "60s+1s(5s)". The increment and delay
// parts are optional; "inf" as the total means an unbounded clock.
func ParseConfiguration(s string) (Configuration, error) {
	var c Configuration
	rest := strings.TrimSpace(s)

	if open := strings.IndexByte(rest, '('); open >= 0 {
		if !strings.HasSuffix(rest, ")") {
			return c, fmt.Errorf("clock %q: unclosed delay", s)
		}
		delay, err := time.ParseDuration(rest[open+1 : len(rest)-1])
		if err != nil {
			return c, fmt.Errorf("clock %q: %w", s, err)
		}
		c.Delay = delay
		rest = rest[:open]
	}
	if plus := strings.IndexByte(rest, '+'); plus >= 0 {
		increment, err := time.ParseDuration(rest[plus+1:])
		if err != nil {
			return c, fmt.Errorf("clock %q: %w", s, err)
		}
		c.Increment = increment
		rest = rest[:plus]
	}
	if rest == "inf" {
		c.TotalTime = Infinite
		return c, nil
	}
	total, err := time.ParseDuration(rest)
	if err != nil {
		return c, fmt.Errorf("clock %q: %w", s, err)
	}
	c.TotalTime = total
	return c, nil
}

func (c Configuration) String() string {
	var b strings.Builder
	if c.TotalTime >= Infinite {
		b.WriteString("inf")
	} else {
		b.WriteString(c.TotalTime.String())
	}
	if c.Increment > 0 {
		b.WriteByte('+')
		b.WriteString(c.Increment.String())
	}
	if c.Delay > 0 {
		b.WriteByte('(')
		b.WriteString(c.Delay.String())
		b.WriteByte(')')
	}
	return b.String()
}

// IsInfinite reports whether the clock never runs out.
func (c Configuration) IsInfinite() bool {
	return c.TotalTime >= Infinite
}

// UnmarshalYAML accepts either the compact string notation or a mapping
// with total_time/increment/delay keys.
func (c *Configuration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		parsed, err := ParseConfiguration(value.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	type plain Configuration
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Configuration(p)
	return nil
}

// GameClock meters one participant's remaining time under a configuration.
// Not safe for concurrent use.
type GameClock struct {
	config    Configuration
	remaining time.Duration
}

func NewGameClock(config Configuration) *GameClock {
	return &GameClock{config: config, remaining: config.TotalTime}
}

// Remaining returns the time left on the clock.
func (g *GameClock) Remaining() time.Duration {
	return g.remaining
}

// Expired reports whether the clock has run out.
func (g *GameClock) Expired() bool {
	return !g.config.IsInfinite() && g.remaining <= 0
}

// Measure runs f and books its duration: time inside the delay is free,
// the excess is deducted, and the increment is credited afterwards (but
// only if the clock did not expire). Returns the raw elapsed time.
func (g *GameClock) Measure(f func()) time.Duration {
	start := time.Now()
	f()
	elapsed := time.Since(start)
	if g.config.IsInfinite() {
		return elapsed
	}
	if used := elapsed - g.config.Delay; used > 0 {
		g.remaining -= used
	}
	if g.remaining > 0 {
		g.remaining += g.config.Increment
	}
	return elapsed
}
