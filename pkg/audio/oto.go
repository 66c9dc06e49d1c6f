package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays samples through Oto v3 for cross-platform audio.
// Samples are streamed through a pipe into a single shared context; Oto
// only allows one context per process.
type OtoOutput struct {
	player     *oto.Player
	writer     *io.PipeWriter
	reader     *io.PipeReader
	sampleRate int
	channels   int
	mu         sync.Mutex
	closed     bool
	wg         sync.WaitGroup
}

var (
	otoMutex   sync.Mutex
	otoContext *oto.Context
)

// NewOtoOutput creates a new Oto-backed output
func NewOtoOutput() (*OtoOutput, error) {
	return &OtoOutput{}, nil
}

// Open opens the audio device
func (o *OtoOutput) Open(sampleRate, channels, bufferSize int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return fmt.Errorf("output already open")
	}

	o.sampleRate = sampleRate
	o.channels = channels
	o.reader, o.writer = io.Pipe()

	otoMutex.Lock()
	if otoContext == nil {
		bufferBytes := bufferSize * channels * 2
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   time.Duration(bufferBytes) * time.Second / time.Duration(sampleRate*channels*2),
		}

		context, ready, err := oto.NewContext(op)
		if err != nil {
			otoMutex.Unlock()
			return fmt.Errorf("failed to create oto context: %w", err)
		}
		<-ready
		otoContext = context
	}
	context := otoContext
	otoMutex.Unlock()

	o.player = context.NewPlayer(o.reader)
	o.closed = false

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.player.Play()
	}()

	return nil
}

// Close closes the output, flushing what is still buffered
func (o *OtoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	// Close writer first to signal EOF to the player
	if o.writer != nil {
		o.writer.Close()
		o.writer = nil
	}

	// Give the device buffer a moment to drain
	time.Sleep(100 * time.Millisecond)

	if o.player != nil {
		o.player.Close()
		o.player = nil
	}
	if o.reader != nil {
		o.reader.Close()
		o.reader = nil
	}

	o.wg.Wait()
	return nil
}

// Write streams samples to the device
func (o *OtoOutput) Write(samples []int16) error {
	o.mu.Lock()
	if o.closed || o.writer == nil {
		o.mu.Unlock()
		return fmt.Errorf("output not open")
	}
	writer := o.writer
	o.mu.Unlock()

	// Oto expects interleaved little-endian int16
	buf := make([]byte, len(samples)*2)
	for i, sample := range samples {
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(sample >> 8)
	}

	_, err := writer.Write(buf)
	return err
}

// IsPlaying returns true while the output is open
func (o *OtoOutput) IsPlaying() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.closed && o.player != nil
}
