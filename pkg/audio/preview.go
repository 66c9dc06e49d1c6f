package audio

// Amiga samples are signed 8-bit PCM. ConvertPCM8 widens them to the
// int16 the Output interface wants.
func ConvertPCM8(data []byte) []int16 {
	out := make([]int16, len(data))
	for i, b := range data {
		out[i] = int16(int8(b)) << 8
	}
	return out
}

// PlayPCM8 renders a signed 8-bit mono sample through out at the given
// rate, in bufferSize chunks. It blocks until the whole sample has been
// written and the output closed.
func PlayPCM8(out Output, data []byte, sampleRate, bufferSize int) error {
	if err := out.Open(sampleRate, 1, bufferSize); err != nil {
		return err
	}
	defer out.Close()

	samples := ConvertPCM8(data)
	for off := 0; off < len(samples); off += bufferSize {
		end := off + bufferSize
		if end > len(samples) {
			end = len(samples)
		}
		if err := out.Write(samples[off:end]); err != nil {
			return err
		}
	}
	return nil
}
