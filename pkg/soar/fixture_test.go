package soar

// Helpers to assemble synthetic packed modules in memory. The default
// geometry places the offset table at base 100 with relative offsets
// [40, 60, 76, 84, 236, 238, 240, 242], small enough to reason about by
// hand in the tests.

type testInstr struct {
	mode        uint16
	sampleID    uint16
	lengthWords uint16
	repeatWords uint16
	name        string
}

const (
	fixSongLen = 20
	fixOverLen = 16
	fixNoteLen = 8
	fixWaveLen = 2
	fixAdsrLen = 2
	fixAmfLen  = 2
)

// buildPacked assembles a packed module whose offset table sits at
// base. Section payloads are filled with per-section patterns so tests
// can verify verbatim copying.
func buildPacked(base int, instrs []testInstr, samples [][]byte) []byte {
	rel := sectionOffsets(len(instrs))

	sampleSec := 4 + 4*len(samples)
	for _, s := range samples {
		sampleSec += len(s)
	}

	buf := make([]byte, base+rel[SecSamples]+sampleSec)

	// Offset table
	for i, r := range rel {
		writeBigEndian32(buf[base+i*4:], uint32(r))
	}

	// Pattern fill for the sections copied verbatim
	fillSection(buf, base+rel[SecSong], fixSongLen, 0xA0)
	fillSection(buf, base+rel[SecOverTable], fixOverLen, 0xB0)
	fillSection(buf, base+rel[SecNotes], fixNoteLen, 0xC0)
	fillSection(buf, base+rel[SecWaves], fixWaveLen, 0xD0)
	fillSection(buf, base+rel[SecADSR], fixAdsrLen, 0xE0)
	fillSection(buf, base+rel[SecAMF], fixAmfLen, 0xF0)

	// Instrument records
	for i, in := range instrs {
		rec := buf[base+rel[SecInstruments]+i*instrEntrySize:]
		putU16(rec[instrModeOff:], in.mode)
		putU16(rec[instrSampleIDOff:], in.sampleID)
		putU16(rec[instrLengthOff:], in.lengthWords)
		putU16(rec[instrRepeatOff:], in.repeatWords)
		copy(rec[instrNameOff:instrNameOff+instrNameLen], in.name)
	}

	// Sample section: count, lengths, payloads
	off := base + rel[SecSamples]
	writeBigEndian32(buf[off:], uint32(len(samples)))
	off += 4
	for _, s := range samples {
		writeBigEndian32(buf[off:], uint32(len(s)))
		off += 4
	}
	for _, s := range samples {
		copy(buf[off:], s)
		off += len(s)
	}

	return buf
}

func sectionOffsets(numInstrs int) [numSections]int {
	var rel [numSections]int
	rel[SecSong] = songTableSize
	rel[SecOverTable] = rel[SecSong] + fixSongLen
	rel[SecNotes] = rel[SecOverTable] + fixOverLen
	rel[SecInstruments] = rel[SecNotes] + fixNoteLen
	rel[SecWaves] = rel[SecInstruments] + numInstrs*instrEntrySize
	rel[SecADSR] = rel[SecWaves] + fixWaveLen
	rel[SecAMF] = rel[SecADSR] + fixAdsrLen
	rel[SecSamples] = rel[SecAMF] + fixAmfLen
	return rel
}

func fillSection(buf []byte, off, n int, seed byte) {
	for i := 0; i < n; i++ {
		buf[off+i] = seed ^ byte(i)
	}
}

func putU16(dst []byte, v uint16) {
	dst[0] = byte(v >> 8)
	dst[1] = byte(v)
}

// kickModule is the reference fixture: one sampled instrument named
// "Kick" (length 5 words, repeat 2) referencing the single 10-byte
// sample.
func kickModule() []byte {
	return buildPacked(100,
		[]testInstr{{mode: 0, sampleID: 0, lengthWords: 5, repeatWords: 2, name: "Kick"}},
		[][]byte{{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}})
}
