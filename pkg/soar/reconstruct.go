package soar

import "bytes"

// Encode serializes the recovered module as an editable SonicArranger
// file: the SOARV1.0 identifier, eight tagged sections, the EDATV1.1
// identifier and the fixed trailer. Section payloads are copied verbatim
// from the input buffer; only the SD8B section is re-synthesized, since
// the packed format scatters sample metadata across the instrument
// table. All counts are written big-endian, matching what the editor
// reads back.
//
// Encode never mutates the module and is deterministic: encoding the
// same module twice yields byte-identical output.
func (m *Module) Encode() []byte {
	var out bytes.Buffer
	out.Grow(len(m.data) + 64)

	out.WriteString(soarID)

	m.writeSection(&out, tagSong, SecSong)
	m.writeSection(&out, tagOverTable, SecOverTable)
	m.writeSection(&out, tagNotes, SecNotes)
	m.writeSection(&out, tagInstruments, SecInstruments)
	m.writeSamples(&out)
	m.writeSection(&out, tagWaves, SecWaves)
	m.writeSection(&out, tagADSR, SecADSR)
	m.writeSection(&out, tagAMF, SecAMF)

	out.WriteString(edatID)
	out.Write(edatData[:])

	return out.Bytes()
}

func (m *Module) writeSection(out *bytes.Buffer, tag string, sec int) {
	s := m.Sections[sec]
	out.WriteString(tag)
	writeCount(out, uint32(s.Count))
	out.Write(m.data[s.Start : s.Start+s.Length])
}

// writeSamples emits the SD8B section. The editable format wants, per
// sample: length in words, repeat point in words, a 30-byte name, the
// raw byte length, then all payloads back to back. The first three come
// from the instrument enrichment pass and stay zero for samples nothing
// references.
func (m *Module) writeSamples(out *bytes.Buffer) {
	out.WriteString(tagSamples)
	writeCount(out, uint32(m.SampleCount))

	for i := range m.Samples {
		writeCount(out, m.Samples[i].LengthWords)
	}
	for i := range m.Samples {
		writeCount(out, m.Samples[i].RepeatWords)
	}
	for i := range m.Samples {
		out.Write(m.Samples[i].Name[:])
	}
	for i := range m.Samples {
		writeCount(out, m.Samples[i].Length)
	}
	out.Write(m.data[m.PayloadStart : m.PayloadStart+m.PayloadLen])
}

func writeCount(out *bytes.Buffer, v uint32) {
	var b [4]byte
	writeBigEndian32(b[:], v)
	out.Write(b[:])
}
