package main

import (
	"encoding/binary"
	"os"
)

// writeWAV writes samples as a 16-bit mono PCM WAV file.
func writeWAV(filename string, samples []int16, sampleRate int) error {
	const channels = 1
	dataSize := len(samples) * 2

	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	// Format chunk size
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	// Audio format (PCM)
	binary.LittleEndian.PutUint16(buf[20:22], 1)
	binary.LittleEndian.PutUint16(buf[22:24], channels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	// Byte rate
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*channels*2))
	// Block align
	binary.LittleEndian.PutUint16(buf[32:34], channels*2)
	// Bits per sample
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, sample := range samples {
		buf[44+i*2] = byte(sample)
		buf[44+i*2+1] = byte(sample >> 8)
	}

	return os.WriteFile(filename, buf, 0o644)
}
