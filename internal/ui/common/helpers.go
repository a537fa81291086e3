// Package common provides shared utilities for the UI.
package common

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/palemoky/bingo-client/internal/card"
)

// TruncateName truncates a player name to the specified maximum length.
func TruncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + "…"
	}
	return name
}

// BallLabel 号码的播报文本，75 球版式带列字母，如 "N-42"
func BallLabel(n int, v card.Variant) string {
	labels := card.ColumnLabels(v)
	if len(labels) == 0 || n < 1 || n > 75 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s-%d", labels[(n-1)/15], n)
}

// BallRange 版式的号码上限
func BallRange(v card.Variant) int {
	if v == card.Variant90 {
		return 90
	}
	return 75
}

// QRCode 把文本渲染成终端可显示的二维码，失败返回空串
func QRCode(text string) string {
	if text == "" {
		return ""
	}
	q, err := qrcode.New(text, qrcode.Low)
	if err != nil {
		return ""
	}
	return strings.TrimRight(q.ToSmallString(false), "\n")
}
