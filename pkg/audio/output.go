package audio

import (
	"errors"
	"sync"
	"time"
)

// Output interface for audio output implementations
type Output interface {
	Open(sampleRate, channels, bufferSize int) error
	Close() error
	Write(samples []int16) error
	IsPlaying() bool
}

// BufferOutput accumulates samples in memory, for tests and offline use
type BufferOutput struct {
	buffer     []int16
	sampleRate int
	channels   int
	mu         sync.Mutex
}

// NewBufferOutput creates a new buffer output
func NewBufferOutput() *BufferOutput {
	return &BufferOutput{}
}

// Open opens the buffer output
func (b *BufferOutput) Open(sampleRate, channels, bufferSize int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sampleRate = sampleRate
	b.channels = channels
	b.buffer = make([]int16, 0, sampleRate*channels)
	return nil
}

// Close closes the buffer output
func (b *BufferOutput) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buffer = nil
	return nil
}

// Write appends samples to the buffer
func (b *BufferOutput) Write(samples []int16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buffer == nil {
		return errors.New("buffer not initialized")
	}

	b.buffer = append(b.buffer, samples...)
	return nil
}

// IsPlaying always returns true for buffer output
func (b *BufferOutput) IsPlaying() bool {
	return true
}

// GetBuffer returns a copy of the accumulated samples
func (b *BufferOutput) GetBuffer() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]int16, len(b.buffer))
	copy(result, b.buffer)
	return result
}

// FallbackOutput paces writes with time.Sleep for systems where no audio
// device is available
type FallbackOutput struct {
	sampleRate int
	channels   int
	closed     bool
	mu         sync.Mutex
}

func NewFallbackOutput() (*FallbackOutput, error) {
	return &FallbackOutput{}, nil
}

func (f *FallbackOutput) Open(sampleRate, channels, bufferSize int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sampleRate = sampleRate
	f.channels = channels
	f.closed = false
	return nil
}

func (f *FallbackOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

func (f *FallbackOutput) Write(samples []int16) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return errors.New("output closed")
	}
	sampleRate := f.sampleRate
	f.mu.Unlock()

	duration := time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	time.Sleep(duration)
	return nil
}

func (f *FallbackOutput) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}
