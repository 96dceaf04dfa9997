// Package config holds the translator configuration and its textual form.
//
// The driver produces the configuration as a single command line argument,
//
//	config:trace_start=0x1000,trace_end=0x2000,prune_unused_functions=1,...
//
// and the translator parses it back. A Config is a plain value; components
// receive a copy and never observe later changes.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Prefix starts the configuration argument on the translator command line.
const Prefix = "config:"

// Default values for the size related knobs.
const (
	DefaultClassSizeLimit     = 16384
	DefaultCallTableHierarchy = 1
)

// ErrTraceRange is returned when the trace end lies before the trace start.
var ErrTraceRange = errors.New("trace start is after trace end")

// Config is the translator configuration.
type Config struct {
	// Debugging
	TraceStart  uint32 `yaml:"trace_start" toml:"trace_start"`
	TraceEnd    uint32 `yaml:"trace_end" toml:"trace_end"`
	TraceStores bool   `yaml:"trace_stores" toml:"trace_stores"`

	// Debug disables the stack spill optimization.
	Debug bool `yaml:"debug" toml:"debug"`
	// Verbose reports every instruction the optimizer removes.
	Verbose bool `yaml:"verbose" toml:"verbose"`

	// Features
	ThreadSafe bool `yaml:"thread_safe" toml:"thread_safe"`

	// Optimizations
	PruneCallTable           bool `yaml:"prune_call_table" toml:"prune_call_table"`
	OptimizePartialMemoryOps bool `yaml:"optimize_partial_memory_operations" toml:"optimize_partial_memory_operations"`
	PruneUnusedFunctions     bool `yaml:"prune_unused_functions" toml:"prune_unused_functions"`

	// Workarounds for limits of the target
	ClassSizeLimit     int `yaml:"class_size_limit" toml:"class_size_limit"`
	CallTableHierarchy int `yaml:"call_table_hierarchy" toml:"call_table_hierarchy"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		PruneUnusedFunctions: true,
		ClassSizeLimit:       DefaultClassSizeLimit,
		CallTableHierarchy:   DefaultCallTableHierarchy,
	}
}

// Validate checks the cross-field constraints of the configuration.
func (c Config) Validate() error {
	if c.TraceEnd < c.TraceStart {
		return fmt.Errorf("%w: 0x%x > 0x%x", ErrTraceRange, c.TraceStart, c.TraceEnd)
	}

	if c.ClassSizeLimit <= 0 {
		return fmt.Errorf("class size limit must be positive, got %d", c.ClassSizeLimit)
	}

	return nil
}

// ShouldTrace reports whether the instruction at addr lies in the trace
// range. An empty range traces nothing.
func (c Config) ShouldTrace(addr uint32) bool {
	if c.TraceStart == 0 && c.TraceEnd == 0 {
		return false
	}

	return addr >= c.TraceStart && addr <= c.TraceEnd
}

// String encodes the configuration as the translator argument. Every token
// is terminated by a comma.
func (c Config) String() string {
	var sb strings.Builder

	sb.WriteString(Prefix)

	if c.TraceStart != 0 {
		fmt.Fprintf(&sb, "trace_start=0x%x,", c.TraceStart)
	}
	if c.TraceEnd != 0 {
		fmt.Fprintf(&sb, "trace_end=0x%x,", c.TraceEnd)
	}
	if c.TraceStores {
		sb.WriteString("trace_stores=1,")
	}
	if c.PruneCallTable {
		sb.WriteString("prune_call_table=1,")
	}
	if c.ThreadSafe {
		sb.WriteString("thread_safe=1,")
	}
	if c.OptimizePartialMemoryOps {
		sb.WriteString("optimize_partial_memory_operations=1,")
	}
	fmt.Fprintf(&sb, "prune_unused_functions=%d,", boolToInt(c.PruneUnusedFunctions))
	fmt.Fprintf(&sb, "class_size_limit=%d,", c.ClassSizeLimit)
	fmt.Fprintf(&sb, "call_table_hierarchy=%d,", c.CallTableHierarchy)
	if c.Debug {
		sb.WriteString("debug=1,")
	}
	if c.Verbose {
		sb.WriteString("verbose=1,")
	}

	return sb.String()
}

// ParseArgument parses a translator argument that must start with Prefix.
func ParseArgument(arg string) (Config, error) {
	body, ok := strings.CutPrefix(arg, Prefix)
	if !ok {
		return Config{}, fmt.Errorf("expecting %q first in argument list, got %q", Prefix, arg)
	}

	return Parse(body)
}

// Parse parses a comma separated list of key=value tokens on top of the
// defaults. Values are C style integers (0x.., 0.., decimal) and only
// their leading number counts, so "16k" reads as 16.
// Unknown keys are ignored so that newer drivers can talk to older
// translators.
func Parse(s string) (Config, error) {
	cfg := Default()

	for _, tok := range strings.Split(s, ",") {
		if tok == "" {
			continue
		}

		key, value, ok := strings.Cut(tok, "=")
		if !ok || value == "" {
			return Config{}, fmt.Errorf("malformed config token %q", tok)
		}

		n, ok := parseLeadingInt(value)
		if !ok {
			return Config{}, fmt.Errorf(
				"argument for key '%s' (%s) cannot be converted to a number",
				key, value)
		}

		cfg.set(key, n)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) set(key string, n int64) {
	switch key {
	case "trace_start":
		c.TraceStart = uint32(n)
	case "trace_end":
		c.TraceEnd = uint32(n)
	case "trace_stores":
		c.TraceStores = n != 0
	case "thread_safe":
		c.ThreadSafe = n != 0
	case "prune_call_table":
		c.PruneCallTable = n != 0
	case "optimize_partial_memory_operations":
		c.OptimizePartialMemoryOps = n != 0
	case "prune_unused_functions":
		c.PruneUnusedFunctions = n != 0
	case "class_size_limit":
		c.ClassSizeLimit = int(n)
	case "call_table_hierarchy":
		c.CallTableHierarchy = int(n)
	case "debug":
		c.Debug = n != 0
	case "verbose":
		c.Verbose = n != 0
	}
}

// parseLeadingInt reads the longest integer prefix of s with C base
// detection. Out of range values saturate. It fails when no digit is read.
func parseLeadingInt(s string) (int64, bool) {
	i := 0
	for i < len(s) && strings.IndexByte(" \t\n\v\f\r", s[i]) >= 0 {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	base := 10
	switch {
	case i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') &&
		digitValue(s[i+2]) < 16:
		base = 16
		i += 2
	case i < len(s) && s[i] == '0':
		base = 8
	}

	start := i
	for i < len(s) && digitValue(s[i]) < base {
		i++
	}
	if i == start {
		return 0, false
	}

	digits := s[start:i]
	if neg {
		digits = "-" + digits
	}

	// ParseInt returns the saturated value along with a range error.
	n, _ := strconv.ParseInt(digits, base, 64)

	return n, true
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}

	return 99
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
