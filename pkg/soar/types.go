package soar

import "errors"

// Section identifiers of the editable SonicArranger format.
// These are the 4-byte tags the authoring application reads back.
const (
	soarID = "SOARV1.0"
	edatID = "EDATV1.1"

	tagSong        = "STBL"
	tagOverTable   = "OVTB"
	tagNotes       = "NTBL"
	tagInstruments = "INST"
	tagSamples     = "SD8B"
	tagWaves       = "SYWT"
	tagADSR        = "SYAR"
	tagAMF         = "SYAF"
)

// Trailer written after the EDATV1.1 identifier. Opaque format constant;
// the editor refuses files without it.
var edatData = [16]byte{0, 1, 0, 1, 0, 0, 0, 0x7b, 0, 0, 0, 0, 0, 1, 0, 3}

// Heuristic constants for locating the song data inside a stripped
// executable. The first offset table entry always equals the size of the
// table header itself (0x28); the second entry is a small positive delta.
// Empirical bounds - changing them changes which files are recognized.
const (
	songTableSize  = 0x28
	maxFirstOffset = 0x400
)

// Fixed record sizes, in bytes, of the seven offset-bounded sections.
const (
	songEntrySize  = 12
	overEntrySize  = 16
	noteEntrySize  = 4
	instrEntrySize = 0x98
	waveEntrySize  = 128
	adsrEntrySize  = 128
	amfEntrySize   = 128
)

// Field offsets inside a 152-byte instrument record.
const (
	instrModeOff     = 0
	instrSampleIDOff = 2
	instrLengthOff   = 4
	instrRepeatOff   = 6
	instrNameOff     = 0x7a

	instrNameLen = 30
)

// Section indexes into Module.Sections, in offset table order.
const (
	SecSong = iota
	SecOverTable
	SecNotes
	SecInstruments
	SecWaves
	SecADSR
	SecAMF
	SecSamples

	numSections
)

var sectionNames = [numSections]string{
	"song", "over", "note", "inst", "wave", "adsr", "amf ", "smpl",
}

// SectionName returns the short label of section index i, as used in
// the info dump.
func SectionName(i int) string {
	return sectionNames[i]
}

// NumSections is the number of logical sections in a module.
const NumSections = numSections

// Section describes one recovered table: where it sits in the input
// buffer, how long it is and how many fixed-size records it holds.
// Derived from adjacent offset table entries, never stored in the file.
type Section struct {
	Start  int
	Length int
	Count  int
}

// SampleInfo collects everything known about one sample. The raw byte
// length comes from the sample section's own length table; words, repeat
// and name are only recovered when a sampled instrument references the
// sample. Unreferenced samples keep the zero values.
type SampleInfo struct {
	Length      uint32 // raw payload bytes
	LengthWords uint32 // from the referencing instrument
	RepeatWords uint32
	Name        [instrNameLen]byte
}

// Instrument is the decoded header of one instrument table record.
// Mode 0 marks a sampled instrument; any other value is synthetic.
type Instrument struct {
	Mode        uint16
	SampleID    uint16
	LengthWords uint16
	RepeatWords uint16
	Name        string
}

// Sentinel errors of the conversion pipeline.
var (
	ErrSongNotFound       = errors.New("song structure not found in file")
	ErrCorruptOffsetTable = errors.New("corrupt offset table")
	ErrBufferTooSmall     = errors.New("read beyond end of buffer")
)
