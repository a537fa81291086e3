//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

var standardFormat = beep.Format{
	SampleRate:  sampleRate,
	NumChannels: 2,
	Precision:   4,
}

// Manager 播放提示音
type Manager struct {
	mu      sync.Mutex
	buffers map[Cue]*beep.Buffer
	enabled bool
}

func NewManager() *Manager {
	return &Manager{buffers: make(map[Cue]*beep.Buffer)}
}

// Init 初始化扬声器并加载 dir 下的音效文件（文件名即 Cue 名）；
// 缺失的 Cue 用合成音代替
func (m *Manager) Init(dir string) error {
	// Init speaker with smaller buffer for lower latency
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if dir != "" {
		if err := m.loadSoundFiles(dir); err != nil {
			return err
		}
	}
	for cue, t := range cueTones {
		if _, ok := m.buffers[cue]; ok {
			continue
		}
		buf, err := synthesize(t)
		if err != nil {
			return fmt.Errorf("synthesize %s: %w", cue, err)
		}
		m.buffers[cue] = buf
	}
	m.enabled = true
	return nil
}

// loadSoundFiles loads all sound files from dir
func (m *Manager) loadSoundFiles(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		// It's okay if directory doesn't exist, just no sounds
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".mp3" && ext != ".wav" {
			continue
		}
		cue := Cue(strings.TrimSuffix(name, filepath.Ext(name)))
		if _, known := cueTones[cue]; !known {
			continue
		}
		// Continue loading other files even if one fails
		_ = m.loadSoundFile(filepath.Join(dir, name), ext, cue)
	}
	return nil
}

func (m *Manager) loadSoundFile(path, ext string, cue Cue) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(standardFormat)
	buffer.Append(resampled)
	m.buffers[cue] = buffer
	return nil
}

func synthesize(t tone) (*beep.Buffer, error) {
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return nil, err
	}
	buffer := beep.NewBuffer(standardFormat)
	buffer.Append(beep.Take(sampleRate.N(t.duration), sine))
	return buffer, nil
}

// Play 播放提示音，未初始化或已关闭时静默
func (m *Manager) Play(cue Cue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return
	}
	buffer, ok := m.buffers[cue]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// Enabled 是否可以发声
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}
