package png

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/jpfielding/pngcore.go/pkg/compress/crc"
)

// ChunkType is the 4-byte ASCII chunk tag. The case of each letter is
// meaningful: bit 5 of byte 0 marks ancillary, bit 5 of byte 1 marks private.
type ChunkType [4]byte

// Critical chunk types (PNG 11.2)
var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'} // Image header
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'} // Image data
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'} // Image trailer
)

// String returns the tag as text.
func (t ChunkType) String() string {
	return string(t[:])
}

// IsCritical reports whether a decoder must understand the chunk.
func (t ChunkType) IsCritical() bool {
	return t[0]&0x20 == 0
}

// IsPublic reports whether the chunk type is registered by the PNG spec.
func (t ChunkType) IsPublic() bool {
	return t[1]&0x20 == 0
}

const (
	chunkOverhead = 12 // length + type + crc
	headerLen     = 13
)

// Header field values for 8-bit RGB without interlacing.
const (
	BitDepth8          = 8
	ColorTypeTrueColor = 2
	CompressionDeflate = 0
	FilterAdaptive     = 0
	InterlaceNone      = 0
)

// Chunk is a type tag and its unframed payload.
type Chunk struct {
	Type ChunkType
	Data []byte
}

// Len is the value of the chunk's length field.
func (c Chunk) Len() int {
	return len(c.Data)
}

// CRC is the checksum over the type tag and payload.
func (c Chunk) CRC() uint32 {
	return crc.Update(crc.Checksum(c.Type[:]), c.Data)
}

// MarshalBinary frames the chunk.
func (c Chunk) MarshalBinary() ([]byte, error) {
	return Frame(c.Type, c.Data)
}

// WriteTo writes the framed chunk to w.
func (c Chunk) WriteTo(w io.Writer) (int64, error) {
	b, err := Frame(c.Type, c.Data)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// lengthOf converts a payload size to the chunk length field.
func lengthOf(n int) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d bytes exceeds %d", ErrChunkTooLarge, n, uint64(math.MaxUint32))
	}
	return uint32(n), nil
}

// Frame returns length | type | payload | crc for a chunk. The payload is
// copied, never modified.
func Frame(t ChunkType, payload []byte) ([]byte, error) {
	n, err := lengthOf(len(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	out := make([]byte, chunkOverhead+len(payload))
	binary.BigEndian.PutUint32(out[0:4], n)
	copy(out[4:8], t[:])
	copy(out[8:], payload)
	binary.BigEndian.PutUint32(out[8+len(payload):], crc.Checksum(out[4:8+len(payload)]))
	return out, nil
}

// payload is the closed set of chunk bodies the encoder emits.
type payload interface {
	chunkType() ChunkType
	bytes() []byte
}

// header is the IHDR body.
type header struct {
	width, height uint32
}

func (h header) chunkType() ChunkType { return TypeIHDR }

func (h header) bytes() []byte {
	b := make([]byte, headerLen)
	binary.BigEndian.PutUint32(b[0:4], h.width)
	binary.BigEndian.PutUint32(b[4:8], h.height)
	b[8] = BitDepth8
	b[9] = ColorTypeTrueColor
	b[10] = CompressionDeflate
	b[11] = FilterAdaptive
	b[12] = InterlaceNone
	return b
}

// data is one IDAT body: all or part of the zlib stream.
type data []byte

func (d data) chunkType() ChunkType { return TypeIDAT }
func (d data) bytes() []byte        { return d }

// end is the empty IEND body.
type end struct{}

func (end) chunkType() ChunkType { return TypeIEND }
func (end) bytes() []byte        { return nil }

func chunkOf(p payload) Chunk {
	return Chunk{Type: p.chunkType(), Data: p.bytes()}
}
