// Package claim submits win claims and turns verdicts into player feedback.
package claim

import (
	"context"

	"github.com/palemoky/bingo-client/internal/apperrors"
	"github.com/palemoky/bingo-client/internal/authority"
	"github.com/palemoky/bingo-client/internal/logger"
)

// SubmitFailedMessage 传输失败时展示给玩家的提示
const SubmitFailedMessage = "Failed to submit claim"

// RejectedMessage 服务端未给出原因时的提示
const RejectedMessage = "Invalid claim"

// Claimer 提交申报的权威服务能力
type Claimer interface {
	Claim(ctx context.Context, roomID string, req authority.ClaimRequest) (*authority.ClaimResponse, error)
}

// Feedback 申报结果的反馈通道
type Feedback interface {
	NotifySuccess()
	NotifyError()
	Alert(message string)
}

// Verdict 直接响应里的裁决，仅供参考
type Verdict = authority.ClaimResponse

// Request 一次申报
type Request struct {
	RoomID   string
	PlayerID string
	CardID   string
}

// Attempt 已登记的申报
type Attempt struct {
	ID int
	Request
}

// Outcome Resolve 的处理结果
type Outcome int

const (
	OutcomeAccepted   Outcome = iota // 服务端判定有效
	OutcomeRejected                  // 服务端判定无效
	OutcomeFailed                    // 传输失败，可重试
	OutcomeSuperseded                // 游戏已被其他玩家赢下
	OutcomeStale                     // 不是当前申报的响应
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeSuperseded:
		return "superseded"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// attemptState 单次申报的反馈去重状态
type attemptState struct {
	Attempt
	resolved    bool // 直接响应已处理
	broadcasted bool // 对应的无效广播已处理
	alerted     bool
}

// Controller 申报流程控制器。
// 除 Submit 外的方法都只在会话循环上调用，不加锁。
type Controller struct {
	claimer  Claimer
	feedback Feedback

	seq     int
	current *attemptState
}

// NewController 创建控制器
func NewController(claimer Claimer, feedback Feedback) *Controller {
	return &Controller{claimer: claimer, feedback: feedback}
}

// Begin 登记一次新的申报；上一次还在等待响应时返回 ErrClaimInFlight
func (c *Controller) Begin(req Request) (Attempt, error) {
	if c.InFlight() {
		return Attempt{}, apperrors.ErrClaimInFlight
	}
	c.seq++
	a := Attempt{ID: c.seq, Request: req}
	c.current = &attemptState{Attempt: a}
	return a, nil
}

// InFlight 是否有申报在等待直接响应
func (c *Controller) InFlight() bool {
	return c.current != nil && !c.current.resolved
}

// Submit 把申报发给权威服务，可在任意 goroutine 调用
func (c *Controller) Submit(ctx context.Context, a Attempt) (*Verdict, error) {
	v, err := c.claimer.Claim(ctx, a.RoomID, authority.ClaimRequest{
		PlayerID: a.PlayerID,
		CardID:   a.CardID,
	})
	if err != nil {
		return nil, apperrors.Claim("submit claim", err)
	}
	return v, nil
}

// Resolve 处理直接响应。相位不在这里改变，以 claim_result 广播为准。
// wonByOther 表示会话已经因其他玩家获胜而结束。
func (c *Controller) Resolve(a Attempt, v *Verdict, err error, wonByOther bool) Outcome {
	st := c.current
	if st == nil || st.ID != a.ID || st.resolved {
		logger.LogDebug("ignoring stale claim response for attempt %d", a.ID)
		return OutcomeStale
	}
	st.resolved = true

	switch {
	case err != nil:
		logger.LogError("claim for card %s failed: %v", a.CardID, err)
		c.feedback.Alert(SubmitFailedMessage)
		return OutcomeFailed

	case v == nil:
		logger.LogError("claim for card %s returned no verdict", a.CardID)
		c.feedback.Alert(SubmitFailedMessage)
		return OutcomeFailed

	case v.Valid:
		if wonByOther {
			logger.LogInfo("claim for card %s accepted after game was already won", a.CardID)
			return OutcomeSuperseded
		}
		c.feedback.NotifySuccess()
		return OutcomeAccepted

	default:
		c.reject(st, v.Message)
		return OutcomeRejected
	}
}

// Rejected 处理本玩家的无效 claim_result 广播；与直接响应共享一次提示
func (c *Controller) Rejected(message string) {
	st := c.current
	if st == nil || st.broadcasted {
		// 没有对应的申报，只做提示
		if message == "" {
			message = RejectedMessage
		}
		c.feedback.Alert(message)
		return
	}
	st.broadcasted = true
	c.reject(st, message)
}

// Reset 新会话开始时清空状态
func (c *Controller) Reset() {
	c.current = nil
}

func (c *Controller) reject(st *attemptState, message string) {
	if st.alerted {
		return
	}
	st.alerted = true
	if message == "" {
		message = RejectedMessage
	}
	c.feedback.NotifyError()
	c.feedback.Alert(message)
}
