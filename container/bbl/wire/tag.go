package wire

import "io"

// ReadTag8_8SVB reads a TAG8_8SVB group (§4.B): one tag byte, then for each
// of the 8 output slots (bit 0 = slot 0, LSB first) a SIGNED_VB value if its
// bit is set, or zero otherwise.
func ReadTag8_8SVB(r io.ByteReader) ([8]int32, error) {
	var out [8]int32
	tag, err := r.ReadByte()
	if err != nil {
		return out, mapEOF(err)
	}
	for i := 0; i < 8; i++ {
		if tag&(1<<uint(i)) == 0 {
			continue
		}
		v, err := ReadSignedVB(r)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteTag8_8SVB encodes vals as TAG8_8SVB.
func WriteTag8_8SVB(vals [8]int32) []byte {
	var tag byte
	var body []byte
	for i, v := range vals {
		if v == 0 {
			continue
		}
		tag |= 1 << uint(i)
		body = append(body, WriteSignedVB(v)...)
	}
	return append([]byte{tag}, body...)
}

// tag2Widths maps a 2-bit selector to the bit width of a TAG2_3S32 slot.
var tag2Widths = [4]int{2, 4, 6, 32}

// ReadTag2_3S32 reads a TAG2_3S32 group (§4.B): one selector byte whose low
// six bits hold three 2-bit width selectors (slot 0 in bits 0-1, slot 1 in
// bits 2-3, slot 2 in bits 4-5), followed by the three values packed back to
// back at their selected widths, each two's-complement and sign-extended.
func ReadTag2_3S32(r io.ByteReader) ([3]int32, error) {
	var out [3]int32
	sel, err := r.ReadByte()
	if err != nil {
		return out, mapEOF(err)
	}

	br := newBitReader(r)
	for i := 0; i < 3; i++ {
		width := tag2Widths[(sel>>uint(i*2))&0x3]
		v, err := br.readBits(width)
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return out, ErrTruncated
			}
			return out, err
		}
		out[i] = signExtend(v, width)
	}
	return out, nil
}

// WriteTag2_3S32 encodes vals as TAG2_3S32, choosing the narrowest width
// from {2,4,6,32} bits that represents each value.
func WriteTag2_3S32(vals [3]int32) []byte {
	var sel byte
	bw := newBitWriter()
	for i, v := range vals {
		w := narrowestSignedWidth(v, tag2Widths[:])
		selIdx := widthIndex(tag2Widths[:], w)
		sel |= byte(selIdx) << uint(i*2)
		bw.writeBits(uint64(uint32(v))&widthMask(w), w)
	}
	return append([]byte{sel}, bw.flush()...)
}

// tag4Widths maps a 2-bit selector to the bit width of a TAG8_4S16 slot; a
// width of 0 means the slot is zero and consumes no bits.
var tag4Widths = [4]int{0, 4, 8, 16}

// ReadTag8_4S16 reads a TAG8_4S16 group (§4.B): one selector byte whose 8
// bits hold four 2-bit width selectors, followed by the non-zero values
// packed back to back at their selected widths.
func ReadTag8_4S16(r io.ByteReader) ([4]int32, error) {
	var out [4]int32
	sel, err := r.ReadByte()
	if err != nil {
		return out, mapEOF(err)
	}

	br := newBitReader(r)
	for i := 0; i < 4; i++ {
		width := tag4Widths[(sel>>uint(i*2))&0x3]
		if width == 0 {
			continue
		}
		v, err := br.readBits(width)
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return out, ErrTruncated
			}
			return out, err
		}
		out[i] = signExtend(v, width)
	}
	return out, nil
}

// WriteTag8_4S16 encodes vals as TAG8_4S16, choosing the narrowest width
// from {0,4,8,16} bits (0 meaning "value is zero, omit") for each value.
func WriteTag8_4S16(vals [4]int32) []byte {
	var sel byte
	bw := newBitWriter()
	for i, v := range vals {
		w := narrowestSignedWidth(v, tag4Widths[:])
		selIdx := widthIndex(tag4Widths[:], w)
		sel |= byte(selIdx) << uint(i*2)
		if w == 0 {
			continue
		}
		bw.writeBits(uint64(uint32(v))&widthMask(w), w)
	}
	return append([]byte{sel}, bw.flush()...)
}

// signExtend interprets the low w bits of v as a two's-complement integer.
func signExtend(v uint64, w int) int32 {
	if w == 0 {
		return 0
	}
	signBit := uint64(1) << uint(w-1)
	v &= widthMask(w)
	if v&signBit != 0 {
		return int32(v - (signBit << 1))
	}
	return int32(v)
}

func widthMask(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w)) - 1
}

// narrowestSignedWidth returns the smallest width in widths (ascending,
// 0 meaning "zero value only") that can represent v in two's complement.
// The widest entry is always assumed sufficient for any int32 value.
func narrowestSignedWidth(v int32, widths []int) int {
	for _, w := range widths {
		if w == 0 {
			if v == 0 {
				return 0
			}
			continue
		}
		if w >= 32 {
			return w
		}
		lo := -(int64(1) << uint(w-1))
		hi := (int64(1) << uint(w-1)) - 1
		if int64(v) >= lo && int64(v) <= hi {
			return w
		}
	}
	return widths[len(widths)-1]
}

func widthIndex(widths []int, w int) int {
	for i, candidate := range widths {
		if candidate == w {
			return i
		}
	}
	return len(widths) - 1
}
