package fastlane

import (
	"errors"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/cpu"
)

const (
	// DefaultMaxSkipFactor is the largest skip factor New accepts unless
	// raised with WithMaxSkipFactor.
	DefaultMaxSkipFactor = 5

	// DefaultLaneBlockSize is the number of top-level slots added per lane
	// block.
	DefaultLaneBlockSize = 4

	// DefaultScanBatchWidth is the number of level-0 slots a range scan skips
	// at once: as many int32 keys as fit in one cache line.
	DefaultScanBatchWidth = int(unsafe.Sizeof(cpu.CacheLinePad{})) / 4

	// MaxLevels is the tallest lane stack New builds.
	MaxLevels = 32

	// maxLaneSlots bounds the level-0 lane of a freshly built index.
	maxLaneSlots = 1 << 30
)

// Errors
var (
	// ErrInvalidConfig is the base error for every construction failure.
	ErrInvalidConfig = errors.New("invalid index configuration")
	// ErrSkipFactor is returned when the skip factor exceeds the configured
	// maximum.
	ErrSkipFactor = errors.New("skip factor exceeds maximum")
	// ErrLaneCapacity is returned when the initial lane block cannot be
	// addressed.
	ErrLaneCapacity = errors.New("lane block exceeds addressable capacity")
	// ErrOutOfOrder is returned by InsertChecked for a key smaller than the
	// current tail.
	ErrOutOfOrder = errors.New("key is smaller than the last inserted key")
	// ErrReservedKey is returned by InsertChecked for the sentinel key.
	ErrReservedKey = errors.New("key is reserved as the empty-slot sentinel")
)

// Config holds the tunables of an Index.
type Config struct {
	// maxSkipFactor is the largest accepted skip factor
	maxSkipFactor int

	// laneBlockSize is the top-level capacity increment
	laneBlockSize int

	// scanBatchWidth is the level-0 stride of range scans
	scanBatchWidth int

	logger  *zap.Logger
	metrics *Metrics
}

// Option mutates a Config.
type Option = func(*Config)

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		maxSkipFactor:  DefaultMaxSkipFactor,
		laneBlockSize:  DefaultLaneBlockSize,
		scanBatchWidth: DefaultScanBatchWidth,
		logger:         zap.NewNop(),
	}
}

// WithMaxSkipFactor sets the largest accepted skip factor. Values above the
// inline bucket size are capped to it.
func WithMaxSkipFactor(n int) Option {
	return func(c *Config) {
		if n > bucketSlots {
			n = bucketSlots
		}
		c.maxSkipFactor = n
	}
}

// WithLaneBlockSize sets the number of top-level slots added on each resize.
func WithLaneBlockSize(n int) Option {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.laneBlockSize = n
	}
}

// WithScanBatchWidth sets the level-0 stride used by SearchRange.
func WithScanBatchWidth(n int) Option {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.scanBatchWidth = n
	}
}

// WithLogger attaches a logger for construction and resize events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a counter set.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) { c.metrics = m }
}

// MaxSkipFactor returns the configured skip factor limit.
func (c Config) MaxSkipFactor() int { return c.maxSkipFactor }

// LaneBlockSize returns the configured top-level block size.
func (c Config) LaneBlockSize() int { return c.laneBlockSize }

// ScanBatchWidth returns the configured range scan stride.
func (c Config) ScanBatchWidth() int { return c.scanBatchWidth }
