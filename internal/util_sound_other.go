//go:build !linux

package internal

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SoundEvent represents the client events that can play a sound
type SoundEvent int

const (
	SoundLoggedIn SoundEvent = iota
	SoundLoggedOut
	SoundArticleSaved
	SoundArticleDeleted
	SoundError
)

const sampleRate = beep.SampleRate(44100)

// chime is a sequence of notes in Hz, each played for noteLength.
type chime []float64

const noteLength = 90 * time.Millisecond

var chimes = map[SoundEvent]chime{
	SoundLoggedIn:       {523.25, 659.25, 783.99},
	SoundLoggedOut:      {783.99, 659.25, 523.25},
	SoundArticleSaved:   {659.25, 987.77},
	SoundArticleDeleted: {440, 329.63},
	SoundError:          {220, 220},
}

// SoundPlayer plays short synthesized chimes for client events
type SoundPlayer struct {
	enabled bool
	sounds  map[SoundEvent]*beep.Buffer
	mu      sync.Mutex
}

// NewSoundPlayer initializes the speaker and renders every chime into memory.
func NewSoundPlayer(enabled bool) (*SoundPlayer, error) {
	sp := &SoundPlayer{
		enabled: enabled,
		sounds:  make(map[SoundEvent]*beep.Buffer),
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	for event, notes := range chimes {
		buffer := beep.NewBuffer(format)
		for _, freq := range notes {
			buffer.Append(tone(freq, noteLength))
		}
		sp.sounds[event] = buffer
	}

	return sp, nil
}

// tone returns a sine wave at freq that fades out over d.
func tone(freq float64, d time.Duration) beep.Streamer {
	total := sampleRate.N(d)
	pos := 0
	step := 2 * math.Pi * freq / float64(sampleRate)
	return beep.Take(total, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			gain := 0.3 * (1 - float64(pos)/float64(total))
			v := gain * math.Sin(step*float64(pos))
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	}))
}

// PlayAsync plays a sound asynchronously without blocking
func (sp *SoundPlayer) PlayAsync(event SoundEvent) {
	if sp == nil {
		return
	}

	sp.mu.Lock()
	enabled := sp.enabled
	buffer, exists := sp.sounds[event]
	sp.mu.Unlock()

	if !enabled || !exists {
		return
	}

	go func() {
		streamer := buffer.Streamer(0, buffer.Len())
		done := make(chan bool, 1)

		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			done <- true
		})))

		// Wait for playback to complete with timeout to prevent goroutine leak
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}()
}

// SetEnabled enables or disables sound playback
func (sp *SoundPlayer) SetEnabled(enabled bool) {
	if sp == nil {
		return
	}
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.enabled = enabled
}

// Close cleans up the sound player resources
func (sp *SoundPlayer) Close() {
	if sp == nil {
		return
	}
	speaker.Clear()
}
