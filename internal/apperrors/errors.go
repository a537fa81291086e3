package apperrors

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind int

const (
	KindSetup    Kind = iota + 1 // 房间创建/加入/开始失败
	KindProtocol                 // 无法解析或字段缺失的入站消息
	KindClaim                    // 申报被拒绝或申报请求失败
	KindChannel                  // 实时通道断开或出错
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindProtocol:
		return "protocol"
	case KindClaim:
		return "claim"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Error 客户端错误
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Setup wraps a failed room-setup call.
func Setup(message string, err error) *Error {
	return &Error{Kind: KindSetup, Code: CodeSetupFailed, Message: message, Err: err}
}

// Protocol wraps an inbound message that could not be used.
func Protocol(message string, err error) *Error {
	return &Error{Kind: KindProtocol, Code: CodeInvalidMsg, Message: message, Err: err}
}

// Claim wraps a claim transport failure.
func Claim(message string, err error) *Error {
	return &Error{Kind: KindClaim, Code: CodeClaimFailed, Message: message, Err: err}
}

// Channel wraps a realtime channel failure.
func Channel(message string, err error) *Error {
	return &Error{Kind: KindChannel, Code: CodeChannelClosed, Message: message, Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// 错误码
const (
	CodeSetupFailed   = 1001
	CodeInvalidMsg    = 2001
	CodeClaimFailed   = 3001
	CodeClaimInFlight = 3002
	CodeChannelClosed = 4001
	CodeNotConnected  = 4002
	CodeCardNotFound  = 5001
	CodeCellRange     = 5002
	CodeNoSession     = 5003
)

// 预定义错误
var (
	ErrCardNotFound   = &Error{Kind: KindSetup, Code: CodeCardNotFound, Message: "card not found"}
	ErrCellOutOfRange = &Error{Kind: KindSetup, Code: CodeCellRange, Message: "cell out of range"}
	ErrNoSession      = &Error{Kind: KindSetup, Code: CodeNoSession, Message: "no active session"}
	ErrNotConnected   = &Error{Kind: KindChannel, Code: CodeNotConnected, Message: "connection closed"}
	ErrClaimInFlight  = &Error{Kind: KindClaim, Code: CodeClaimInFlight, Message: "claim already in flight"}
)
