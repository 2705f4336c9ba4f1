package datatable

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/go-kit/log"
)

const (
	DefaultParallelChunkSize    = 64 * 1024
	DefaultCompressionBlockSize = 16 * 1024
)

// The Config type carries configuration options for selector resolution and
// column materialization.
//
// Config implements the Option interface so it can be used directly as
// argument to the functions accepting options, for example:
//
//	rows, err := datatable.ResolveSelector(value, frame, &datatable.Config{
//		Parallelism: 4,
//	})
type Config struct {
	Logger               log.Logger
	PersistentBuffers    BufferPool
	Parallelism          int
	ParallelChunkSize    int
	CompressionBlockSize int
}

// DefaultConfig returns a new Config value initialized with the default
// configuration.
func DefaultConfig() *Config {
	return &Config{
		Logger:               log.NewNopLogger(),
		PersistentBuffers:    NewFileBufferPool("", "datatable.*"),
		Parallelism:          runtime.GOMAXPROCS(0),
		ParallelChunkSize:    DefaultParallelChunkSize,
		CompressionBlockSize: DefaultCompressionBlockSize,
	}
}

// Apply applies the given list of options to c.
func (c *Config) Apply(options ...Option) {
	for _, opt := range options {
		opt.Configure(c)
	}
}

// Configure applies configuration options from c to config.
func (c *Config) Configure(config *Config) {
	*config = Config{
		Logger:               coalesceLogger(c.Logger, config.Logger),
		PersistentBuffers:    coalesceBufferPool(c.PersistentBuffers, config.PersistentBuffers),
		Parallelism:          coalesceInt(c.Parallelism, config.Parallelism),
		ParallelChunkSize:    coalesceInt(c.ParallelChunkSize, config.ParallelChunkSize),
		CompressionBlockSize: coalesceInt(c.CompressionBlockSize, config.CompressionBlockSize),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *Config) Validate() error {
	const baseName = "datatable.(*Config)."
	return errorInvalidConfiguration(
		validateNotNil(baseName+"Logger", c.Logger),
		validateNotNil(baseName+"PersistentBuffers", c.PersistentBuffers),
		validatePositiveInt(baseName+"Parallelism", c.Parallelism),
		validatePositiveInt(baseName+"ParallelChunkSize", c.ParallelChunkSize),
		validatePositiveInt(baseName+"CompressionBlockSize", c.CompressionBlockSize),
	)
}

// Option is an interface implemented by types that carry configuration
// options.
type Option interface {
	Configure(*Config)
}

// Logger configures the logger receiving debug events about selector
// resolution and materialization.
//
// Defaults to a logger discarding all events.
func Logger(logger log.Logger) Option {
	return option(func(config *Config) { config.Logger = logger })
}

// PersistentBuffers configures the pool from which buffers are allocated when
// columns are materialized into their persistable form.
//
// Defaults to memory mapped files created in the default temporary directory.
func PersistentBuffers(buffers BufferPool) Option {
	return option(func(config *Config) { config.PersistentBuffers = buffers })
}

// Parallelism configures the maximum number of goroutines used to
// materialize columns and frames.
//
// Defaults to GOMAXPROCS.
type Parallelism int

func (n Parallelism) Configure(config *Config) { config.Parallelism = int(n) }

// ParallelChunkSize configures the number of rows computed by each goroutine
// when virtual columns are materialized in parallel.
//
// Defaults to 64 Ki rows.
type ParallelChunkSize int

func (n ParallelChunkSize) Configure(config *Config) { config.ParallelChunkSize = int(n) }

// CompressionBlockSize configures the number of rows held in each block of
// compressed columns.
//
// Defaults to 16 Ki rows.
type CompressionBlockSize int

func (n CompressionBlockSize) Configure(config *Config) { config.CompressionBlockSize = int(n) }

type option func(*Config)

func (opt option) Configure(config *Config) { opt(config) }

var (
	globalMutex  sync.RWMutex
	globalConfig = DefaultConfig()
)

// SetOptions changes the process wide defaults used when no options are
// passed to functions of this package. The new configuration is validated
// before being installed.
func SetOptions(options ...Option) error {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	config := *globalConfig
	config.Apply(options...)
	if err := config.Validate(); err != nil {
		return err
	}
	globalConfig = &config
	return nil
}

// newConfig returns a copy of the process wide configuration with options
// applied on top of it.
func newConfig(options ...Option) (*Config, error) {
	globalMutex.RLock()
	config := *globalConfig
	globalMutex.RUnlock()
	config.Apply(options...)
	return &config, config.Validate()
}

func currentConfig() *Config {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalConfig
}

func coalesceInt(i1, i2 int) int {
	if i1 != 0 {
		return i1
	}
	return i2
}

func coalesceLogger(l1, l2 log.Logger) log.Logger {
	if l1 != nil {
		return l1
	}
	return l2
}

func coalesceBufferPool(p1, p2 BufferPool) BufferPool {
	if p1 != nil {
		return p1
	}
	return p2
}

func validatePositiveInt(optionName string, optionValue int) error {
	if optionValue > 0 {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func validateNotNil(optionName string, optionValue interface{}) error {
	if optionValue != nil {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func errorInvalidOptionValue(optionName string, optionValue interface{}) error {
	return fmt.Errorf("invalid option value: %s: %v", optionName, optionValue)
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration

	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}

	if err != nil {
		return err
	}

	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	errorMessage := new(strings.Builder)
	for _, reason := range err.reasons {
		errorMessage.WriteString(reason.Error())
		errorMessage.WriteString("\n")
	}
	errorString := errorMessage.String()
	if errorString != "" {
		errorString = errorString[:len(errorString)-1]
	}
	return errorString
}
