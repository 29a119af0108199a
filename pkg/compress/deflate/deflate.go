// Package deflate provides the zlib compressors used for PNG image data.
// Streams follow RFC 1950 (zlib) wrapping RFC 1951 (deflate), which is what
// PNG compression method 0 requires.
package deflate

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Compression levels accepted by New.
const (
	NoCompression      = zlib.NoCompression
	BestSpeed          = zlib.BestSpeed
	BestCompression    = zlib.BestCompression
	DefaultCompression = zlib.DefaultCompression
	HuffmanOnly        = zlib.HuffmanOnly
)

// ErrUnknownCompressor is returned by ByName for unregistered names.
var ErrUnknownCompressor = errors.New("deflate: unknown compressor")

// Compressor defines the interface for a whole-buffer zlib compressor
type Compressor interface {
	// Compress returns the zlib stream for data
	Compress(data []byte) ([]byte, error)
	// Name returns the compressor identifier (e.g., "zlib")
	Name() string
	// Level returns the effort level in use
	Level() int
}

// pools holds one writer pool per level; the map is never modified after init.
var pools = func() map[int]*sync.Pool {
	m := make(map[int]*sync.Pool)
	for l := HuffmanOnly; l <= BestCompression; l++ {
		level := l
		m[level] = &sync.Pool{
			New: func() any {
				// level is in range so the error is always nil
				zw, _ := zlib.NewWriterLevel(nil, level)
				return zw
			},
		}
	}
	return m
}()

func validLevel(level int) error {
	if _, ok := pools[level]; !ok {
		return fmt.Errorf("deflate: invalid compression level %d (want %d..%d)", level, HuffmanOnly, BestCompression)
	}
	return nil
}

// zlibCompressor compresses with pooled klauspost zlib writers.
type zlibCompressor struct {
	name  string
	level int
}

// New returns a zlib compressor at the given level.
func New(level int) (Compressor, error) {
	if err := validLevel(level); err != nil {
		return nil, err
	}
	return &zlibCompressor{name: "zlib", level: level}, nil
}

func (c *zlibCompressor) Name() string {
	return c.name
}

func (c *zlibCompressor) Level() int {
	return c.level
}

func (c *zlibCompressor) Compress(data []byte) ([]byte, error) {
	pool := pools[c.level]
	zw := pool.Get().(*zlib.Writer)
	defer pool.Put(zw)

	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)
	zw.Reset(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("%s: write: %w", c.name, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%s: close: %w", c.name, err)
	}
	slog.Debug("compressed", "compressor", c.name, "level", c.level, "in", len(data), "out", buf.Len())
	return buf.Bytes(), nil
}

// Func adapts a Compressor to a plain function.
func Func(c Compressor) func([]byte) ([]byte, error) {
	return c.Compress
}

// compressorsByName maps names to constructors
var compressorsByName = map[string]func(level int) (Compressor, error){
	"zlib":    New,
	"deflate": New, // alias
	"store": func(int) (Compressor, error) {
		// stored blocks only, level is ignored
		return &zlibCompressor{name: "store", level: NoCompression}, nil
	},
	"huffman": func(int) (Compressor, error) {
		return &zlibCompressor{name: "huffman", level: HuffmanOnly}, nil
	},
}

// ByName returns the named compressor at level.
func ByName(name string, level int) (Compressor, error) {
	ctor, ok := compressorsByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompressor, name)
	}
	return ctor(level)
}

// Names lists the registered compressor names.
func Names() []string {
	names := make([]string, 0, len(compressorsByName))
	for n := range compressorsByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
