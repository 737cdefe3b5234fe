// Package codec is the unified top-level entry point (§6): a generic
// Encode/Decode pair that dispatches on [asn1.CodecRule] to the matching
// backend, plus the shared [Config] every call site consults. Config's
// functional-option constructor follows the teacher pack's
// libvuln/updates.ManagerOption shape - closures over a mutable receiver,
// applied left to right by a variadic constructor - rather than a builder
// struct with exported fields, since that is the option pattern this
// module's corpus actually uses.
package codec

import "asn1codec.dev/asn1/asn1metrics"

// defaultMaxDepth is the depth limit that a Config built by [NewConfig]
// passes to the PER and OER backends, in place of their own package default
// of 64.
const defaultMaxDepth = 32

// Config holds the knobs shared by every backend dispatch: strictness,
// recursion depth, whether trailing bytes after a decode are an error, and
// an optional metrics recorder.
type Config struct {
	// Strict is stored with the other settings and defaults to true, but
	// [Encode] and [Decode] do not pass it to any backend: non-canonical
	// input (for example non-zero PER padding bits) is accepted or rejected
	// the same way whatever its value.
	Strict bool
	// MaxDepth bounds constructed-value nesting; zero means "use the
	// backend's own default".
	MaxDepth uint
	// DecodeRemainder, when false (the default), makes Decode return an
	// error if the input has trailing bytes past the decoded value.
	DecodeRemainder bool
	// Metrics, if non-nil, receives encode/decode call, byte, and error
	// counts. A nil Metrics keeps the engine a pure function of its inputs.
	Metrics *asn1metrics.Recorder
}

// Option configures a [Config]. See [WithStrict], [WithMaxDepth],
// [WithRemainder], [WithMetrics].
type Option func(*Config)

// NewConfig builds a Config from its defaults (Strict: true, MaxDepth: 32,
// DecodeRemainder: false, Metrics: nil) applying opts left to right.
func NewConfig(opts ...Option) Config {
	cfg := Config{Strict: true, MaxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithStrict overrides Config.Strict.
func WithStrict(strict bool) Option {
	return func(c *Config) { c.Strict = strict }
}

// WithMaxDepth overrides Config.MaxDepth.
func WithMaxDepth(n uint) Option {
	return func(c *Config) { c.MaxDepth = n }
}

// WithRemainder overrides Config.DecodeRemainder.
func WithRemainder(allow bool) Option {
	return func(c *Config) { c.DecodeRemainder = allow }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(r *asn1metrics.Recorder) Option {
	return func(c *Config) { c.Metrics = r }
}
