package card

import (
	"fmt"

	"github.com/palemoky/bingo-client/internal/apperrors"
)

// Engine 持有会话内的全部卡片，是卡片状态的唯一修改入口。
// Engine 不加锁，调用方需保证单线程访问。
type Engine struct {
	cards []*Card
	byID  map[string]*Card
}

// NewEngine 拷贝并规范化卡片。缺少版式的卡片使用 fallback；
// 重复 ID 只保留第一张。
func NewEngine(cards []Card, fallback Variant) *Engine {
	if _, ok := ParseVariant(string(fallback)); !ok {
		fallback = Variant75
	}
	e := &Engine{byID: make(map[string]*Card, len(cards))}
	for i := range cards {
		if _, dup := e.byID[cards[i].ID]; dup {
			continue
		}
		c := cards[i].Clone()
		if _, ok := ParseVariant(string(c.Variant)); !ok {
			c.Variant = fallback
		}
		c.normalize()
		e.cards = append(e.cards, &c)
		e.byID[c.ID] = &c
	}
	return e
}

// ApplyDraw 把所有卡片上等于 n 且未标记的格子标记为已标记。
// 返回是否有格子发生变化；同一号码重复调用不会再改变任何格子。
func (e *Engine) ApplyDraw(n int) bool {
	changed := false
	for _, c := range e.cards {
		for i := range c.Grid {
			for j := range c.Grid[i] {
				cell := &c.Grid[i][j]
				if cell.Matches(n) && !cell.Marked {
					cell.Marked = true
					changed = true
				}
			}
		}
	}
	return changed
}

// ToggleMark 翻转一个有号码的普通格子。免费格和空格静默忽略，返回 (false, nil)。
func (e *Engine) ToggleMark(cardID string, row, col int) (bool, error) {
	c, ok := e.byID[cardID]
	if !ok {
		return false, fmt.Errorf("toggle %s: %w", cardID, apperrors.ErrCardNotFound)
	}
	if row < 0 || row >= c.Rows() || col < 0 || col >= c.Cols(row) {
		return false, fmt.Errorf("toggle %s (%d,%d): %w", cardID, row, col, apperrors.ErrCellOutOfRange)
	}
	cell := &c.Grid[row][col]
	if !cell.Markable() {
		return false, nil
	}
	cell.Marked = !cell.Marked
	return true, nil
}

// Snapshot 返回卡片的只读副本
func (e *Engine) Snapshot(cardID string) (Card, bool) {
	c, ok := e.byID[cardID]
	if !ok {
		return Card{}, false
	}
	return c.Clone(), true
}

// Cards 按加入顺序返回所有卡片的副本
func (e *Engine) Cards() []Card {
	out := make([]Card, 0, len(e.cards))
	for _, c := range e.cards {
		out = append(out, c.Clone())
	}
	return out
}

// IDs 按加入顺序返回卡片 ID
func (e *Engine) IDs() []string {
	ids := make([]string, 0, len(e.cards))
	for _, c := range e.cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// Has 是否持有该卡片
func (e *Engine) Has(cardID string) bool {
	_, ok := e.byID[cardID]
	return ok
}

// Len 卡片数量
func (e *Engine) Len() int {
	return len(e.cards)
}
