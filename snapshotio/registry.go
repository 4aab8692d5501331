package snapshotio

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// ErrNoDecoder is returned when no registered Decoder recognises the input.
var ErrNoDecoder = errors.New("snapshotio: no decoder found for input format")

// Decoder is the extension point for additional heap-snapshot input
// formats beyond the JSON fixture format this package decodes directly.
// A production embedder with its own streaming binary format would
// register a Decoder rather than modifying this package.
type Decoder interface {
	// CanDecode previews r (which must not be consumed beyond a small
	// amount) and reports whether this Decoder recognises the format.
	CanDecode(r io.Reader) bool

	// Decode reads a fresh reader positioned at the start of the document
	// and returns the parsed Input.
	Decode(r io.Reader) (*Input, error)
}

type jsonDecoder struct{}

func (jsonDecoder) CanDecode(r io.Reader) bool       { return CanDecodeJSON(r) }
func (jsonDecoder) Decode(r io.Reader) (*Input, error) { return DecodeJSON(r) }

type registry struct {
	mu       sync.RWMutex
	decoders []Decoder
}

var defaultRegistry = &registry{decoders: []Decoder{jsonDecoder{}}}

// Register adds a Decoder to the default registry, tried in registration
// order (after the built-in JSON decoder) by Open.
func Register(d Decoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.decoders = append(defaultRegistry.decoders, d)
}

// Open tries each registered Decoder in turn and returns the Input from
// the first one that recognises the format.
func Open(r io.Reader) (*Input, error) {
	buf := new(bytes.Buffer)
	tee := io.TeeReader(r, buf)

	detectBuf := make([]byte, 4096)
	n, err := tee.Read(detectBuf)
	if err != nil && err != io.EOF {
		return nil, err
	}

	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	for _, d := range defaultRegistry.decoders {
		if d.CanDecode(bytes.NewReader(detectBuf[:n])) {
			return d.Decode(io.MultiReader(bytes.NewReader(detectBuf[:n]), r))
		}
	}
	return nil, ErrNoDecoder
}
