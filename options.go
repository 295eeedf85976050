package docmark

import "github.com/riverfjs/docmark-go/internal/ocr"

// Options holds options for conversion and rendering.
type Options struct {
	Model       string
	Concurrency int
	Config      *RenderConfig
}

// Option is a function that configures Options.
type Option func(*Options)

// WithModel sets the OCR model.
func WithModel(model string) Option {
	return func(opts *Options) {
		if model != "" {
			opts.Model = model
		}
	}
}

// WithConcurrency limits how many files ProcessFiles converts at once.
func WithConcurrency(n int) Option {
	return func(opts *Options) {
		if n > 0 {
			opts.Concurrency = n
		}
	}
}

// WithConfig sets a custom RenderConfig.
func WithConfig(config *RenderConfig) Option {
	return func(opts *Options) {
		if config != nil {
			opts.Config = config
		}
	}
}

// defaultOptions returns the default options.
func defaultOptions() *Options {
	return &Options{
		Model:       ocr.DefaultModel,
		Concurrency: 2,
		Config:      DefaultConfig(),
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
