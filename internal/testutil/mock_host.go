//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/bingo-client/internal/host"
)

// MockHost is a mock implementation of host.Capabilities
type MockHost struct {
	mock.Mock
}

func (m *MockHost) Identity() (host.Identity, bool) {
	args := m.Called()
	return args.Get(0).(host.Identity), args.Bool(1)
}

func (m *MockHost) ColorScheme() host.ColorScheme {
	args := m.Called()
	return args.Get(0).(host.ColorScheme)
}

func (m *MockHost) ShortPulse()    { m.Called() }
func (m *MockHost) LongPulse()     { m.Called() }
func (m *MockHost) NotifySuccess() { m.Called() }
func (m *MockHost) NotifyError()   { m.Called() }

func (m *MockHost) Alert(message string) {
	m.Called(message)
}

// RecordingHost 记录所有反馈调用，可跨 goroutine 使用
type RecordingHost struct {
	ID   string
	Name string

	mu     sync.Mutex
	calls  []string
	alerts []string
}

var _ host.Capabilities = (*RecordingHost)(nil)

func (h *RecordingHost) Identity() (host.Identity, bool) {
	if h.ID == "" {
		return host.Identity{}, false
	}
	return host.Identity{ID: h.ID, Name: h.Name}, true
}

func (h *RecordingHost) ColorScheme() host.ColorScheme { return host.SchemeLight }

func (h *RecordingHost) ShortPulse()    { h.record("short") }
func (h *RecordingHost) LongPulse()     { h.record("long") }
func (h *RecordingHost) NotifySuccess() { h.record("success") }
func (h *RecordingHost) NotifyError()   { h.record("error") }

func (h *RecordingHost) Alert(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, "alert")
	h.alerts = append(h.alerts, message)
}

// Calls 反馈调用序列
func (h *RecordingHost) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// Alerts 提示内容
func (h *RecordingHost) Alerts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.alerts...)
}

// Count 某类调用的次数
func (h *RecordingHost) Count(call string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (h *RecordingHost) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}
