package soar

// FindSong scans data for the embedded offset table that marks the start
// of the song. The packed format carries no magic number, so detection is
// purely structural: at every 2-byte-aligned position, the first 32-bit
// value must equal 0x28 (the offset of the song table, which always
// immediately follows the offset table itself) and the second must be a
// slightly larger value below 0x400. The first matching position wins.
//
// Returns the base offset of the module, or ErrSongNotFound if no
// position qualifies.
func FindSong(data []byte) (int, error) {
	max := len(data) - songTableSize
	for off := 0; off < max; off += 2 {
		v1 := int32(readBigEndian32(data[off:]))
		v2 := int32(readBigEndian32(data[off+4:]))
		if v1 == songTableSize && v2 > v1 && v2 < maxFirstOffset {
			return off, nil
		}
	}
	return -1, ErrSongNotFound
}

// IsPackedModule reports whether data contains a recognizable packed
// SonicArranger module.
func IsPackedModule(data []byte) bool {
	_, err := FindSong(data)
	return err == nil
}
