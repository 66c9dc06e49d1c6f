package soar

import (
	"bytes"
	"fmt"
	"strings"
)

// recordSizes in offset table order. The sample section has no fixed
// record size; its count is read from its own header.
var recordSizes = [numSections - 1]int{
	songEntrySize,
	overEntrySize,
	noteEntrySize,
	instrEntrySize,
	waveEntrySize,
	adsrEntrySize,
	amfEntrySize,
}

// Module is a packed song recovered from a stripped binary. It keeps a
// reference to the input buffer; all section bounds have been validated
// against it by Parse, and nothing mutates the buffer afterwards.
type Module struct {
	Base     int
	Sections [numSections]Section

	// SampleCount is the count field at the start of the sample section.
	SampleCount int
	// Samples holds per-sample metadata, filled in two passes: raw byte
	// lengths from the sample section, then words/repeat/name from the
	// instruments that reference each sample.
	Samples []SampleInfo

	// PayloadStart/PayloadLen delimit the concatenated raw sample data.
	PayloadStart int
	PayloadLen   int

	// Diagnostics collects recoverable inconsistencies found while
	// enriching the sample table. Conversion succeeded despite them.
	Diagnostics []string

	data buffer
}

// Parse reads the module structures at base, which must be an offset
// returned by FindSong. It derives the eight section descriptors from
// the offset table, parses the sample section and recovers per-sample
// metadata from the instrument table.
//
// Every read is bounds-checked: a module whose derived offsets leave
// the buffer fails with ErrBufferTooSmall, and a non-monotonic offset
// table fails with ErrCorruptOffsetTable.
func Parse(data []byte, base int) (*Module, error) {
	m := &Module{Base: base, data: buffer(data)}

	// Offset table: 8 big-endian entries relative to base, in the order
	// song, over, note, inst, wave, adsr, amf, smpl.
	for i := 0; i < numSections; i++ {
		v, err := m.data.u32(base + i*4)
		if err != nil {
			return nil, err
		}
		m.Sections[i].Start = base + int(int32(v))
	}

	// Section n ends where section n+1 starts, so the starts must be
	// non-decreasing and inside the buffer or the derived lengths are
	// garbage.
	if m.Sections[SecSong].Start < 0 {
		return nil, fmt.Errorf("%w: song offset before start of file", ErrCorruptOffsetTable)
	}
	for i := 1; i < numSections; i++ {
		if m.Sections[i].Start < m.Sections[i-1].Start {
			return nil, fmt.Errorf("%w: %s offset 0x%x before %s offset 0x%x",
				ErrCorruptOffsetTable,
				strings.TrimSpace(sectionNames[i]), m.Sections[i].Start,
				strings.TrimSpace(sectionNames[i-1]), m.Sections[i-1].Start)
		}
	}
	if m.Sections[SecSamples].Start > len(data) {
		return nil, fmt.Errorf("%w: sample section at 0x%x beyond end of file",
			ErrCorruptOffsetTable, m.Sections[SecSamples].Start)
	}

	for i := 0; i < numSections-1; i++ {
		s := &m.Sections[i]
		s.Length = m.Sections[i+1].Start - s.Start
		s.Count = s.Length / recordSizes[i]
	}

	if err := m.parseSamples(); err != nil {
		return nil, err
	}
	m.enrichFromInstruments()

	return m, nil
}

// parseSamples reads the sample section header: a 4-byte sample count,
// then one 4-byte raw length per sample, then the concatenated sample
// data. The section's own length is derived here; there is no ninth
// offset table entry to bound it.
func (m *Module) parseSamples() error {
	secStart := m.Sections[SecSamples].Start

	count, err := m.data.u32(secStart)
	if err != nil {
		return err
	}
	m.SampleCount = int(count)

	if _, err := m.data.bytes(secStart+4, m.SampleCount*4); err != nil {
		return err
	}

	m.Samples = make([]SampleInfo, m.SampleCount)
	total := 0
	for i := 0; i < m.SampleCount; i++ {
		length := readBigEndian32(m.data[secStart+4+i*4:])
		m.Samples[i].Length = length
		total += int(length)
	}

	m.PayloadStart = secStart + 4 + m.SampleCount*4
	m.PayloadLen = total
	if _, err := m.data.bytes(m.PayloadStart, m.PayloadLen); err != nil {
		return err
	}

	m.Sections[SecSamples].Length = 4 + m.SampleCount*4 + m.PayloadLen
	m.Sections[SecSamples].Count = m.SampleCount
	return nil
}

// enrichFromInstruments walks the instrument table and copies sample
// length, repeat point and name out of every sampled instrument into the
// sample table. The packed format stores this metadata nowhere else.
// Samples no instrument references keep their zeroed entries; an
// instrument pointing at a nonexistent sample is reported and skipped.
func (m *Module) enrichFromInstruments() {
	sec := m.Sections[SecInstruments]
	for i := 0; i < sec.Count; i++ {
		rec := m.data[sec.Start+i*instrEntrySize:]

		if readBigEndian16(rec[instrModeOff:]) != 0 {
			continue // synthetic instrument, no sample behind it
		}
		id := int(readBigEndian16(rec[instrSampleIDOff:]))
		if id >= m.SampleCount {
			m.Diagnostics = append(m.Diagnostics,
				fmt.Sprintf("inconsistent sample id 0x%04x in instrument %d, data ignored", id, i))
			continue
		}
		s := &m.Samples[id]
		s.LengthWords = uint32(readBigEndian16(rec[instrLengthOff:]))
		s.RepeatWords = uint32(readBigEndian16(rec[instrRepeatOff:]))
		copy(s.Name[:], rec[instrNameOff:instrNameOff+instrNameLen])
	}
}

// Instruments decodes the header fields of every instrument table
// record, in table order.
func (m *Module) Instruments() []Instrument {
	sec := m.Sections[SecInstruments]
	out := make([]Instrument, sec.Count)
	for i := range out {
		rec := m.data[sec.Start+i*instrEntrySize:]
		out[i] = Instrument{
			Mode:        readBigEndian16(rec[instrModeOff:]),
			SampleID:    readBigEndian16(rec[instrSampleIDOff:]),
			LengthWords: readBigEndian16(rec[instrLengthOff:]),
			RepeatWords: readBigEndian16(rec[instrRepeatOff:]),
			Name:        nulTerminated(rec[instrNameOff : instrNameOff+instrNameLen]),
		}
	}
	return out
}

// SampleData returns the raw signed 8-bit payload of sample i.
func (m *Module) SampleData(i int) []byte {
	start := m.PayloadStart
	for j := 0; j < i; j++ {
		start += int(m.Samples[j].Length)
	}
	return m.data[start : start+int(m.Samples[i].Length)]
}

// SampleName returns the recovered name of sample i, empty for samples
// no instrument references.
func (m *Module) SampleName(i int) string {
	return nulTerminated(m.Samples[i].Name[:])
}

func nulTerminated(b []byte) string {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return string(b)
}
