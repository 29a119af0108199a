package png

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"testing"

	"github.com/jpfielding/pngcore.go/pkg/compress/crc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_LengthAndCRC(t *testing.T) {
	tests := []struct {
		name    string
		typ     ChunkType
		payload []byte
	}{
		{"IHDR", TypeIHDR, header{width: 2, height: 2}.bytes()},
		{"IDATSmall", TypeIDAT, []byte{0x78, 0x9c, 0x01}},
		{"IDATLarge", TypeIDAT, bytes.Repeat([]byte{0xAB, 0xCD}, 40000)},
		{"IEND", TypeIEND, nil},
		{"IENDEmptySlice", TypeIEND, []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Frame(tt.typ, tt.payload)
			require.NoError(t, err)
			require.Len(t, out, 12+len(tt.payload))

			// length field
			assert.Equal(t, uint32(len(tt.payload)), binary.BigEndian.Uint32(out[0:4]))
			// type tag verbatim
			assert.Equal(t, tt.typ[:], out[4:8])
			// payload verbatim
			assert.True(t, bytes.Equal(tt.payload, out[8:8+len(tt.payload)]))
			// crc over type ++ payload
			want := crc.Checksum(append(append([]byte{}, tt.typ[:]...), tt.payload...))
			assert.Equal(t, want, binary.BigEndian.Uint32(out[len(out)-4:]))
		})
	}
}

func TestFrame_IEND(t *testing.T) {
	out, err := Frame(TypeIEND, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}, out)
}

func TestFrame_DoesNotMutatePayload(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	orig := append([]byte{}, payload...)
	out, err := Frame(TypeIDAT, payload)
	require.NoError(t, err)
	assert.Equal(t, orig, payload)

	// output is a copy, not an alias
	out[8] = 0xFF
	assert.Equal(t, orig, payload)
}

func TestLengthOf(t *testing.T) {
	n, err := lengthOf(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n)

	n, err = lengthOf(13)
	require.NoError(t, err)
	assert.Equal(t, uint32(13), n)

	_, err = lengthOf(-1)
	require.ErrorIs(t, err, ErrChunkTooLarge)

	if strconv.IntSize < 64 {
		t.Skip("int cannot exceed the 32-bit length field")
	}
	var limit uint64 = math.MaxUint32
	big := int(limit)
	n, err = lengthOf(big)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), n)

	_, err = lengthOf(big + 1)
	require.ErrorIs(t, err, ErrChunkTooLarge)
}

func TestChunk_Descriptor(t *testing.T) {
	c := chunkOf(header{width: 640, height: 480})
	assert.Equal(t, TypeIHDR, c.Type)
	assert.Equal(t, 13, c.Len())
	assert.Equal(t, []byte{0, 0, 2, 0x80, 0, 0, 1, 0xE0, 8, 2, 0, 0, 0}, c.Data)

	framed, err := c.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, c.CRC(), binary.BigEndian.Uint32(framed[len(framed)-4:]))

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(framed)), n)
	assert.Equal(t, framed, buf.Bytes())

	e := chunkOf(end{})
	assert.Equal(t, TypeIEND, e.Type)
	assert.Zero(t, e.Len())
	assert.Equal(t, uint32(0xAE426082), e.CRC())

	d := chunkOf(data{1, 2, 3})
	assert.Equal(t, TypeIDAT, d.Type)
	assert.Equal(t, 3, d.Len())
}

func TestChunkType_Properties(t *testing.T) {
	tests := []struct {
		typ      ChunkType
		critical bool
		public   bool
	}{
		{TypeIHDR, true, true},
		{TypeIDAT, true, true},
		{TypeIEND, true, true},
		{ChunkType{'t', 'E', 'X', 't'}, false, true},
		{ChunkType{'p', 'r', 'V', 't'}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.critical, tt.typ.IsCritical())
			assert.Equal(t, tt.public, tt.typ.IsPublic())
		})
	}
	assert.Equal(t, "IDAT", TypeIDAT.String())
}
