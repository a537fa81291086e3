// Package host describes the platform capabilities the session consumes.
// Every capability is optional; a missing one is a no-op.
package host

import "strings"

// Identity 当前用户
type Identity struct {
	ID   string
	Name string
}

// ColorScheme 宿主配色
type ColorScheme int

const (
	SchemeLight ColorScheme = iota
	SchemeDark
)

func (s ColorScheme) String() string {
	if s == SchemeDark {
		return "dark"
	}
	return "light"
}

// ParseScheme 解析 "dark"/"light"，其他值返回 false
func ParseScheme(s string) (ColorScheme, bool) {
	switch strings.ToLower(s) {
	case "dark":
		return SchemeDark, true
	case "light":
		return SchemeLight, true
	default:
		return SchemeLight, false
	}
}

// Capabilities 宿主平台能力
type Capabilities interface {
	// Identity 返回当前用户；宿主不知道时返回 false
	Identity() (Identity, bool)
	ColorScheme() ColorScheme

	ShortPulse()
	LongPulse()
	NotifySuccess()
	NotifyError()

	// Alert 阻塞式提示
	Alert(message string)
}

// Funcs 用函数字段拼装能力，nil 字段即 no-op
type Funcs struct {
	IdentityFunc      func() (Identity, bool)
	ColorSchemeFunc   func() ColorScheme
	ShortPulseFunc    func()
	LongPulseFunc     func()
	NotifySuccessFunc func()
	NotifyErrorFunc   func()
	AlertFunc         func(message string)
}

var _ Capabilities = Funcs{}

func (f Funcs) Identity() (Identity, bool) {
	if f.IdentityFunc == nil {
		return Identity{}, false
	}
	return f.IdentityFunc()
}

func (f Funcs) ColorScheme() ColorScheme {
	if f.ColorSchemeFunc == nil {
		return SchemeLight
	}
	return f.ColorSchemeFunc()
}

func (f Funcs) ShortPulse() {
	if f.ShortPulseFunc != nil {
		f.ShortPulseFunc()
	}
}

func (f Funcs) LongPulse() {
	if f.LongPulseFunc != nil {
		f.LongPulseFunc()
	}
}

func (f Funcs) NotifySuccess() {
	if f.NotifySuccessFunc != nil {
		f.NotifySuccessFunc()
	}
}

func (f Funcs) NotifyError() {
	if f.NotifyErrorFunc != nil {
		f.NotifyErrorFunc()
	}
}

func (f Funcs) Alert(message string) {
	if f.AlertFunc != nil {
		f.AlertFunc(message)
	}
}

// Noop 全部能力缺失的宿主
func Noop() Capabilities {
	return Funcs{}
}

// OrNoop 把 nil 替换为 Noop
func OrNoop(c Capabilities) Capabilities {
	if c == nil {
		return Noop()
	}
	return c
}
