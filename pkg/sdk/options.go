package lexiscreen

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dir       string
	driver    string // "valkey" or "redis"; empty means dir
	addrs     []string
	password  string
	keyPrefix string

	positiveLabel int
	ageRange      *[2]float64
	defaultTopK   int
	maxTopK       int

	title     string
	wrapWidth int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithArtifactDir loads artifacts from a directory holding features.json,
// feature_defaults.json and model.json.
func WithArtifactDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dir = dir
	})
}

// WithValkey loads artifacts from a Valkey registry.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis loads artifacts from a Redis registry.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the registry key prefix. Default: "lexiscreen:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithPositiveLabel sets the model class label that means "dyslexia". Default: 1.
func WithPositiveLabel(label int) Option {
	return optionFunc(func(c *clientConfig) {
		c.positiveLabel = label
	})
}

// WithAgeRange clamps the assembled Age into [minAge, maxAge].
// Ages are passed through unchanged unless this is set.
func WithAgeRange(minAge, maxAge float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.ageRange = &[2]float64{minAge, maxAge}
	})
}

// WithTopK sets how many influential features a report lists by default
// and the largest count a caller may ask for. Defaults: 5 and 50.
func WithTopK(defaultK, maxK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = defaultK
		c.maxTopK = maxK
	})
}

// WithDocument sets the PDF title and interpretation wrap width.
func WithDocument(title string, wrapWidth int) Option {
	return optionFunc(func(c *clientConfig) {
		c.title = title
		c.wrapWidth = wrapWidth
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
