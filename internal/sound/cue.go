package sound

import "time"

// Cue 一种提示音，对应宿主平台的一种触感反馈
type Cue string

const (
	CueTap     Cue = "tap"     // 轻触：标记格子
	CueDraw    Cue = "draw"    // 开号后自动标记命中
	CueSuccess Cue = "success" // 申报成功
	CueError   Cue = "error"   // 申报被拒
	CueAlert   Cue = "alert"   // 弹出提示
)

// tone 没有音效文件时合成的替代音
type tone struct {
	freq     float64
	duration time.Duration
}

var cueTones = map[Cue]tone{
	CueTap:     {freq: 880, duration: 40 * time.Millisecond},
	CueDraw:    {freq: 660, duration: 80 * time.Millisecond},
	CueSuccess: {freq: 1046.5, duration: 250 * time.Millisecond},
	CueError:   {freq: 220, duration: 250 * time.Millisecond},
	CueAlert:   {freq: 440, duration: 120 * time.Millisecond},
}

// Cues 全部提示音
func Cues() []Cue {
	return []Cue{CueTap, CueDraw, CueSuccess, CueError, CueAlert}
}
