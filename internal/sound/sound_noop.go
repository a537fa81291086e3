//go:build ci

package sound

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Init(string) error {
	return nil
}

func (m *Manager) Play(Cue) {
	// No-op
}

func (m *Manager) Enabled() bool {
	return false
}

func (m *Manager) Close() {
	// No-op
}
