package soar

import "fmt"

// All multi-byte integers in a packed module are big-endian (68k byte
// order), regardless of the host.

func readBigEndian32(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
}

func readBigEndian16(data []byte) uint16 {
	if len(data) < 2 {
		return 0
	}
	return uint16(data[0])<<8 | uint16(data[1])
}

func writeBigEndian32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

// buffer wraps the raw module bytes with bounds-checked accessors.
// Derived offsets are never trusted; a read that would run past the
// input fails with ErrBufferTooSmall instead.
type buffer []byte

func (b buffer) checkRange(off, n int) error {
	if off < 0 || n < 0 || off+n > len(b) {
		return fmt.Errorf("%w: need %d bytes at 0x%x, have 0x%x", ErrBufferTooSmall, n, off, len(b))
	}
	return nil
}

func (b buffer) u32(off int) (uint32, error) {
	if err := b.checkRange(off, 4); err != nil {
		return 0, err
	}
	return readBigEndian32(b[off:]), nil
}

func (b buffer) u16(off int) (uint16, error) {
	if err := b.checkRange(off, 2); err != nil {
		return 0, err
	}
	return readBigEndian16(b[off:]), nil
}

func (b buffer) bytes(off, n int) ([]byte, error) {
	if err := b.checkRange(off, n); err != nil {
		return nil, err
	}
	return b[off : off+n], nil
}
