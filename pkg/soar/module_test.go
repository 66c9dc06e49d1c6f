package soar

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, data []byte) *Module {
	t.Helper()
	base, err := FindSong(data)
	if err != nil {
		t.Fatalf("FindSong failed: %v", err)
	}
	m, err := Parse(data, base)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

func TestParseSectionTable(t *testing.T) {
	m := mustParse(t, kickModule())

	wantStart := [numSections]int{140, 160, 176, 184, 336, 338, 340, 342}
	wantLen := [numSections]int{20, 16, 8, 152, 2, 2, 2, 4 + 4 + 10}
	wantCount := [numSections]int{1, 1, 2, 1, 0, 0, 0, 1}

	for i := 0; i < numSections; i++ {
		s := m.Sections[i]
		if s.Start != wantStart[i] {
			t.Errorf("section %d start = %d, want %d", i, s.Start, wantStart[i])
		}
		if s.Length != wantLen[i] {
			t.Errorf("section %d length = %d, want %d", i, s.Length, wantLen[i])
		}
		if s.Count != wantCount[i] {
			t.Errorf("section %d count = %d, want %d", i, s.Count, wantCount[i])
		}
	}

	if m.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", m.SampleCount)
	}
	if m.PayloadStart != 350 || m.PayloadLen != 10 {
		t.Errorf("payload = (0x%x, %d), want (350, 10)", m.PayloadStart, m.PayloadLen)
	}
}

func TestParseMonotonicSections(t *testing.T) {
	m := mustParse(t, kickModule())

	for i := 1; i < numSections; i++ {
		if m.Sections[i].Start < m.Sections[i-1].Start {
			t.Errorf("section %d start %d below section %d start %d",
				i, m.Sections[i].Start, i-1, m.Sections[i-1].Start)
		}
	}
	for i := 0; i < numSections; i++ {
		if m.Sections[i].Length < 0 {
			t.Errorf("section %d length negative: %d", i, m.Sections[i].Length)
		}
	}
}

func TestSampleEnrichment(t *testing.T) {
	m := mustParse(t, kickModule())

	s := m.Samples[0]
	if s.Length != 10 {
		t.Errorf("Length = %d, want 10", s.Length)
	}
	if s.LengthWords != 5 {
		t.Errorf("LengthWords = %d, want 5", s.LengthWords)
	}
	if s.RepeatWords != 2 {
		t.Errorf("RepeatWords = %d, want 2", s.RepeatWords)
	}
	if got := m.SampleName(0); got != "Kick" {
		t.Errorf("name = %q, want %q", got, "Kick")
	}
	if len(m.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", m.Diagnostics)
	}
}

func TestUnreferencedSampleStaysZero(t *testing.T) {
	// Two samples, only the second referenced by an instrument.
	data := buildPacked(100,
		[]testInstr{{mode: 0, sampleID: 1, lengthWords: 3, repeatWords: 1, name: "Snare"}},
		[][]byte{{1, 2, 3, 4}, {9, 9, 9, 9, 9, 9}})
	m := mustParse(t, data)

	s0 := m.Samples[0]
	if s0.LengthWords != 0 || s0.RepeatWords != 0 {
		t.Errorf("unreferenced sample enriched: %+v", s0)
	}
	if s0.Name != ([30]byte{}) {
		t.Errorf("unreferenced sample name not zeroed: %q", s0.Name)
	}
	if s0.Length != 4 {
		t.Errorf("raw length = %d, want 4", s0.Length)
	}

	s1 := m.Samples[1]
	if s1.LengthWords != 3 || s1.RepeatWords != 1 || m.SampleName(1) != "Snare" {
		t.Errorf("referenced sample not enriched: %+v", s1)
	}
}

func TestInconsistentSampleID(t *testing.T) {
	data := buildPacked(100,
		[]testInstr{{mode: 0, sampleID: 5, lengthWords: 7, repeatWords: 3, name: "Ghost"}},
		[][]byte{{1, 2, 3, 4}})
	m := mustParse(t, data)

	if len(m.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", m.Diagnostics)
	}
	if !strings.Contains(m.Diagnostics[0], "sample id 0x0005") {
		t.Errorf("diagnostic %q does not name the bad id", m.Diagnostics[0])
	}
	if s := m.Samples[0]; s.LengthWords != 0 || s.RepeatWords != 0 || s.Name != ([30]byte{}) {
		t.Errorf("sample touched by out-of-range instrument: %+v", s)
	}
}

func TestSyntheticInstrumentSkipped(t *testing.T) {
	// Nonzero mode means no sample behind the instrument; its fields
	// must never leak into the sample table.
	data := buildPacked(100,
		[]testInstr{{mode: 1, sampleID: 0, lengthWords: 7, repeatWords: 3, name: "Wave"}},
		[][]byte{{1, 2, 3, 4}})
	m := mustParse(t, data)

	if s := m.Samples[0]; s.LengthWords != 0 || s.RepeatWords != 0 || s.Name != ([30]byte{}) {
		t.Errorf("synthetic instrument enriched sample: %+v", s)
	}
	if len(m.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", m.Diagnostics)
	}
}

func TestLastSampledInstrumentWins(t *testing.T) {
	data := buildPacked(100,
		[]testInstr{
			{mode: 0, sampleID: 0, lengthWords: 5, repeatWords: 2, name: "First"},
			{mode: 0, sampleID: 0, lengthWords: 8, repeatWords: 4, name: "Second"},
		},
		[][]byte{{1, 2, 3, 4}})
	m := mustParse(t, data)

	if s := m.Samples[0]; s.LengthWords != 8 || s.RepeatWords != 4 || m.SampleName(0) != "Second" {
		t.Errorf("enrichment not in table order: %+v", s)
	}
}

func TestParseCorruptOffsetTable(t *testing.T) {
	data := kickModule()
	// Swap the note and instrument offsets so the table decreases.
	writeBigEndian32(data[100+8:], 84)
	writeBigEndian32(data[100+12:], 76)

	_, err := Parse(data, 100)
	if !errors.Is(err, ErrCorruptOffsetTable) {
		t.Errorf("err = %v, want ErrCorruptOffsetTable", err)
	}
}

func TestParseSampleSectionBeyondBuffer(t *testing.T) {
	data := kickModule()
	writeBigEndian32(data[100+28:], 0x10000)

	_, err := Parse(data, 100)
	if !errors.Is(err, ErrCorruptOffsetTable) {
		t.Errorf("err = %v, want ErrCorruptOffsetTable", err)
	}
}

func TestParseTruncatedPayload(t *testing.T) {
	data := kickModule()

	_, err := Parse(data[:len(data)-4], 100)
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("err = %v, want ErrBufferTooSmall", err)
	}
}

func TestParseTruncatedLengthTable(t *testing.T) {
	data := kickModule()

	// Cut inside the sample length table, before any payload.
	_, err := Parse(data[:348], 100)
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("err = %v, want ErrBufferTooSmall", err)
	}
}

func TestInstruments(t *testing.T) {
	data := buildPacked(100,
		[]testInstr{
			{mode: 0, sampleID: 1, lengthWords: 5, repeatWords: 2, name: "Kick"},
			{mode: 3, sampleID: 0, lengthWords: 0, repeatWords: 0, name: "Lead"},
		},
		[][]byte{{1, 2}, {3, 4}})
	m := mustParse(t, data)

	got := m.Instruments()
	want := []Instrument{
		{Mode: 0, SampleID: 1, LengthWords: 5, RepeatWords: 2, Name: "Kick"},
		{Mode: 3, SampleID: 0, LengthWords: 0, RepeatWords: 0, Name: "Lead"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instrument %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSampleData(t *testing.T) {
	data := buildPacked(100,
		[]testInstr{{mode: 0, sampleID: 0, lengthWords: 1, repeatWords: 0, name: "A"}},
		[][]byte{{10, 20, 30}, {40, 50}})
	m := mustParse(t, data)

	if got := m.SampleData(0); !bytes.Equal(got, []byte{10, 20, 30}) {
		t.Errorf("sample 0 data = %v", got)
	}
	if got := m.SampleData(1); !bytes.Equal(got, []byte{40, 50}) {
		t.Errorf("sample 1 data = %v", got)
	}
}
