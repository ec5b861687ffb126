package beholder

import "log/slog"

// Option configures a device during creation.
//
// Example:
//
//	dev, err := gl.NewDevice(functions,
//	    beholder.WithLogger(logger),
//	    beholder.WithStateCacheLimit(256))
type Option func(*Options)

// Options holds the resolved device configuration. Backends read it after
// applying the caller's options with ApplyOptions.
type Options struct {
	// Logger overrides the package logger for one device.
	Logger *slog.Logger
	// DebugLabels attaches object names to native objects where supported.
	DebugLabels bool
	// StateCacheLimit bounds the per-device state object cache.
	StateCacheLimit int
	// Features, when non-nil, restricts the device's reported features.
	Features *Feature
	// ShaderVersion overrides the generated shader language profile, e.g.
	// "430 core" for GLSL or "5_0" for HLSL.
	ShaderVersion string
}

// DefaultStateCacheLimit is the state object cache size when none is given.
const DefaultStateCacheLimit = 1024

// ApplyOptions returns the defaults with opts applied in order.
func ApplyOptions(opts ...Option) Options {
	o := Options{StateCacheLimit: DefaultStateCacheLimit}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Log returns the device logger, falling back to the package logger.
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return Logger()
}

// WithLogger sets a logger for one device.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithDebugLabels enables native debug labels.
func WithDebugLabels() Option {
	return func(o *Options) {
		o.DebugLabels = true
	}
}

// WithStateCacheLimit sets how many distinct state objects a device keeps.
// Values below 1 keep the default.
func WithStateCacheLimit(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.StateCacheLimit = n
		}
	}
}

// WithCapabilities masks the device's features with f. It is used to
// exercise fallback paths on capable hardware.
func WithCapabilities(f Feature) Option {
	return func(o *Options) {
		o.Features = &f
	}
}

// WithShaderVersion overrides the generated shader profile.
func WithShaderVersion(v string) Option {
	return func(o *Options) {
		o.ShaderVersion = v
	}
}
