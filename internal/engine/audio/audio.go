// Package audio provides playback for the park's music loop and sound effects.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/folio3d/parkwalk/internal/logger"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

var (
	// ErrNotInitialized is returned by Play before Init succeeded.
	ErrNotInitialized = errors.New("audio not initialized")
	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrUnknownSound is returned by Play for names never loaded.
	ErrUnknownSound = errors.New("unknown sound")
)

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func decodeWAV(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return wav.Decode(rc)
}

// decoderFor picks a decoder by file extension.
func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV, nil
	case ".ogg":
		return vorbis.Decode, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// sound is a decoded clip kept in memory.
type sound struct {
	buffer *beep.Buffer
	volume float64
	loop   bool
}

// Manager owns the speaker, the sound bank and the single music loop.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	sounds      map[string]*sound

	// Music loop
	loopName   string
	loopCtrl   *beep.Ctrl
	loopVolume *effects.Volume

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	musicVolume  float64
	sfxVolume    float64
	muted        bool

	// Mixer for concurrent effects
	mixer *beep.Mixer
	log   *zap.Logger
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sounds:       make(map[string]*sound),
		masterVolume: 1.0,
		musicVolume:  0.3,
		sfxVolume:    0.5,
		mixer:        &beep.Mixer{},
		log:          logger.Named("audio"),
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops everything and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.loopName, m.loopCtrl, m.loopVolume = "", nil, nil
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Load decodes a .wav or .ogg file into the bank under name. volume is the
// clip's own gain, applied on top of the music or effects volume. Loop clips
// play as the music loop.
func (m *Manager) Load(name, path string, volume float64, loop bool) error {
	decode, err := decoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open sound %s: %w", name, err)
	}

	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode sound %s: %w", name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("read sound %s: %w", name, err)
	}

	m.mu.Lock()
	m.sounds[name] = &sound{buffer: buf, volume: max(volume, 0), loop: loop}
	m.mu.Unlock()

	m.log.Debug("sound loaded",
		zap.String("name", name),
		zap.String("path", path),
		zap.Duration("length", format.SampleRate.D(buf.Len())),
	)
	return nil
}

// Has reports whether name is in the bank.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sounds[name]
	return ok
}

// Play starts a loaded sound. Effects are dropped while muted. Starting the
// loop that is already playing is a no-op; starting another loop replaces it.
func (m *Manager) Play(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	s, ok := m.sounds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSound, name)
	}

	if s.loop {
		if m.loopName == name {
			return nil
		}
		m.stopLoopLocked()

		src := beep.Loop(-1, s.buffer.Streamer(0, s.buffer.Len()))
		m.loopCtrl = &beep.Ctrl{Streamer: m.resample(s.buffer.Format(), src), Paused: m.muted}
		m.loopVolume = &effects.Volume{Streamer: m.loopCtrl, Base: 2}
		setGain(m.loopVolume, m.masterVolume*m.musicVolume*s.volume)
		m.loopName = name

		speaker.Lock()
		m.mixer.Add(m.loopVolume)
		speaker.Unlock()
		return nil
	}

	if m.muted {
		return nil
	}
	v := &effects.Volume{
		Streamer: m.resample(s.buffer.Format(), s.buffer.Streamer(0, s.buffer.Len())),
		Base:     2,
	}
	setGain(v, m.masterVolume*m.sfxVolume*s.volume)

	speaker.Lock()
	m.mixer.Add(v)
	speaker.Unlock()
	return nil
}

// StopLoop stops the music loop.
func (m *Manager) StopLoop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLoopLocked()
}

func (m *Manager) stopLoopLocked() {
	if m.loopCtrl == nil {
		return
	}
	speaker.Lock()
	// Drained streamers are removed from the mixer on the next pull.
	m.loopCtrl.Streamer = nil
	speaker.Unlock()
	m.loopName, m.loopCtrl, m.loopVolume = "", nil, nil
}

// LoopName returns the name of the playing loop, or "".
func (m *Manager) LoopName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loopName
}

// SetMuted pauses or resumes the loop. Effects requested while muted are
// dropped, not queued.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.muted = muted
	if m.loopCtrl != nil {
		speaker.Lock()
		m.loopCtrl.Paused = muted
		speaker.Unlock()
	}
}

// Muted reports the mute state.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// SetVolumes sets the master, music and effects volumes (0.0 to 1.0).
func (m *Manager) SetVolumes(master, music, sfx float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.masterVolume = clamp(master, 0, 1)
	m.musicVolume = clamp(music, 0, 1)
	m.sfxVolume = clamp(sfx, 0, 1)
	m.log.Debug("volumes changed",
		zap.Float64("music_db", volumeToDb(m.masterVolume*m.musicVolume)),
		zap.Float64("sfx_db", volumeToDb(m.masterVolume*m.sfxVolume)),
	)
	if m.loopVolume != nil {
		s := m.sounds[m.loopName]
		speaker.Lock()
		setGain(m.loopVolume, m.masterVolume*m.musicVolume*s.volume)
		speaker.Unlock()
	}
}

// Volumes returns the master, music and effects volumes.
func (m *Manager) Volumes() (master, music, sfx float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume, m.musicVolume, m.sfxVolume
}

func (m *Manager) resample(format beep.Format, s beep.Streamer) beep.Streamer {
	if format.SampleRate == m.sampleRate {
		return s
	}
	return beep.Resample(4, format.SampleRate, m.sampleRate, s)
}

// setGain configures a base-2 volume effect for a linear gain.
func setGain(v *effects.Volume, gain float64) {
	v.Silent = gain <= 0
	v.Volume = gainExponent(gain)
}

// gainExponent converts a linear gain to a base-2 exponent.
func gainExponent(gain float64) float64 {
	if gain <= 0 {
		return -16
	}
	return math.Log2(gain)
}

// volumeToDb converts a linear gain to decibels, for logs.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
