package wire

import (
	"io"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a variable-length value runs into EOF before
// its terminating byte (high bit clear) is read.
var ErrTruncated = errors.New("wire: truncated variable-length value")

// ErrTooLong is returned when a variable-length value would need more than
// maxVarintBytes bytes (the last byte read still has its continuation bit
// set), which can only
// happen against a corrupt or adversarial stream since no field width this
// codec set supports needs more than 5 bytes.
var ErrTooLong = errors.New("wire: variable-length value too long")

// maxVarintBytes bounds UNSIGNED_VB/SIGNED_VB: 5 groups of 7 bits cover a
// full 32-bit value with three bits to spare.
const maxVarintBytes = 5

// ReadUnsignedVB reads an UNSIGNED_VB (LEB128-style 7-bit unsigned, §4.B)
// value from r.
func ReadUnsignedVB(r io.ByteReader) (uint32, error) {
	var result uint32
	for i := 0; i < maxVarintBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, ErrTruncated
			}
			return 0, err
		}
		result |= uint32(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, ErrTooLong
}

// WriteUnsignedVB encodes v as UNSIGNED_VB and returns the encoded bytes.
func WriteUnsignedVB(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		out = append(out, b)
		return out
	}
}

// ZigZagEncode maps a signed value to an unsigned one so that small-magnitude
// values (positive or negative) have small encodings: 0,-1,1,-2,2,... ->
// 0,1,2,3,4,...
func ZigZagEncode(v int32) uint32 {
	return (uint32(v) << 1) ^ uint32(v>>31)
}

// ZigZagDecode reverses ZigZagEncode.
func ZigZagDecode(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// ReadSignedVB reads a SIGNED_VB value: an UNSIGNED_VB followed by a ZigZag
// unmap (§4.B).
func ReadSignedVB(r io.ByteReader) (int32, error) {
	u, err := ReadUnsignedVB(r)
	if err != nil {
		return 0, err
	}
	return ZigZagDecode(u), nil
}

// WriteSignedVB encodes v as SIGNED_VB.
func WriteSignedVB(v int32) []byte {
	return WriteUnsignedVB(ZigZagEncode(v))
}
