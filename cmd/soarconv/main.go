package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mnemotron/soarconv/pkg/audio"
	"github.com/mnemotron/soarconv/pkg/soar"
)

// Exit codes. 10 for bad usage keeps the Amiga-style RETURN_ERROR the
// original converter used; the rest distinguish the fatal classes.
const (
	exitOK       = 0
	exitUsage    = 10
	exitInput    = 11
	exitNotFound = 12
	exitCorrupt  = 13
	exitOutput   = 14
)

var (
	info       = flag.Bool("info", false, "Show module info only, no conversion")
	list       = flag.Bool("list", false, "List instruments")
	exportDir  = flag.String("export", "", "Export samples as WAV files into this directory")
	play       = flag.Int("play", -1, "Preview sample with this index")
	sampleRate = flag.Int("rate", 8287, "Preview/export sample rate (Hz)")
	bufferSize = flag.Int("buffer", 2048, "Audio buffer size")
	output     = flag.String("audio", "oto", "Audio backend for preview (oto, null)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <inputfile> [outputfile]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "SonicArranger packed format converter\n")
		fmt.Fprintf(os.Stderr, "Restores a stripped, player-embedded module to the editable format.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	fmt.Printf("soarconv -- SonicArranger packed format converter\n\n")

	inspectOnly := *info || *list || *exportDir != "" || *play >= 0

	if flag.NArg() < 1 || (!inspectOnly && flag.NArg() < 2) {
		flag.Usage()
		os.Exit(exitUsage)
	}

	inFile := flag.Arg(0)

	data, err := soar.LoadModuleFile(inFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "*** Error: cannot read %s: %v\n", inFile, err)
		os.Exit(exitInput)
	}
	fmt.Printf("File size: 0x%x\n", len(data))

	base, err := soar.FindSong(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "*** Error: SonicArranger module not found in %s\n", inFile)
		os.Exit(exitNotFound)
	}
	fmt.Printf("Song found at offset: 0x%x\n", base)

	m, err := soar.Parse(data, base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "*** Error: %s: %v\n", inFile, err)
		os.Exit(exitCorrupt)
	}

	for _, d := range m.Diagnostics {
		fmt.Printf("Warning: %s\n", d)
	}

	printInfo(m)

	if *list {
		printInstruments(m)
	}

	if *exportDir != "" {
		if err := exportSamples(m, *exportDir); err != nil {
			fmt.Fprintf(os.Stderr, "*** Error: %v\n", err)
			os.Exit(exitOutput)
		}
	}

	if *play >= 0 {
		if err := playSample(m, *play); err != nil {
			fmt.Fprintf(os.Stderr, "*** Error: %v\n", err)
			os.Exit(exitOutput)
		}
	}

	if inspectOnly && flag.NArg() < 2 {
		os.Exit(exitOK)
	}

	outFile := flag.Arg(1)
	if err := soar.SaveFile(outFile, m.Encode()); err != nil {
		fmt.Fprintf(os.Stderr, "*** Error: cannot write %s: %v\n", outFile, err)
		os.Exit(exitOutput)
	}

	fmt.Printf("Output written to: %s\n", outFile)
}

func printInfo(m *soar.Module) {
	for i := 0; i < soar.NumSections; i++ {
		s := m.Sections[i]
		fmt.Printf("%s: 0x%08x len=0x%08x cnt=%d\n", soar.SectionName(i), s.Start, s.Length, s.Count)
	}
	fmt.Printf("sample data: 0x%08x len=0x%08x\n", m.PayloadStart, m.PayloadLen)
}

func printInstruments(m *soar.Module) {
	fmt.Printf("\nInstruments:\n")
	for i, in := range m.Instruments() {
		kind := "synth"
		if in.Mode == 0 {
			kind = "sample"
		}
		fmt.Printf("  %2d: %-6s id=0x%02x len=0x%04x repeat=0x%04x name=%s\n",
			i, kind, in.SampleID, in.LengthWords, in.RepeatWords, in.Name)
	}
}

func exportSamples(m *soar.Module, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range m.Samples {
		if m.Samples[i].Length == 0 {
			continue
		}
		name := sanitizeName(m.SampleName(i))
		if name == "" {
			name = "sample"
		}
		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.wav", i, name))
		samples := audio.ConvertPCM8(m.SampleData(i))
		if err := writeWAV(path, samples, *sampleRate); err != nil {
			return err
		}
		fmt.Printf("Exported: %s\n", path)
	}
	return nil
}

func playSample(m *soar.Module, idx int) error {
	if idx >= len(m.Samples) || m.Samples[idx].Length == 0 {
		return fmt.Errorf("no sample data at index %d", idx)
	}

	var out audio.Output
	var err error

	switch *output {
	case "oto":
		out, err = audio.NewOtoOutput()
		if err != nil {
			fmt.Printf("Warning: no audio device (%v), using silent output\n", err)
			out, err = audio.NewFallbackOutput()
		}
	case "null":
		out, err = audio.NewFallbackOutput()
	default:
		return fmt.Errorf("unknown audio backend: %s", *output)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Playing sample %d (%s), %d bytes at %d Hz...\n",
		idx, m.SampleName(idx), m.Samples[idx].Length, *sampleRate)
	return audio.PlayPCM8(out, m.SampleData(idx), *sampleRate, *bufferSize)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
}
