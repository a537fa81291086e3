package card

import "strconv"

// Variant 卡片版式
type Variant string

const (
	Variant75 Variant = "75" // 5x5，中心为免费格
	Variant90 Variant = "90" // 3x9，每行 5 个号码 4 个空格
)

// ParseVariant 解析版式，未知值返回 false
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case Variant75, Variant90:
		return Variant(s), true
	default:
		return "", false
	}
}

// ColumnLabels 返回列标题，90 球版式没有列标题
func ColumnLabels(v Variant) []string {
	if v == Variant90 {
		return nil
	}
	return []string{"B", "I", "N", "G", "O"}
}

// Cell 一个格子。Value 为 nil 且非 Free 时是仅用于排版的空格
type Cell struct {
	Value  *int `json:"value"`
	Free   bool `json:"free"`
	Marked bool `json:"marked"`
}

// Blank 是否为空格
func (c Cell) Blank() bool {
	return c.Value == nil && !c.Free
}

// Markable 是否允许手动标记
func (c Cell) Markable() bool {
	return c.Value != nil && !c.Free
}

// Matches 是否与开出的号码匹配；免费格从不匹配
func (c Cell) Matches(n int) bool {
	return c.Markable() && *c.Value == n
}

// Label 返回格子的显示文本
func (c Cell) Label() string {
	switch {
	case c.Free:
		return "FREE"
	case c.Value == nil:
		return ""
	default:
		return strconv.Itoa(*c.Value)
	}
}

// Card 玩家卡片，ID 由服务端分配且不可变
type Card struct {
	ID      string   `json:"id"`
	Variant Variant  `json:"variant,omitempty"`
	Grid    [][]Cell `json:"grid"`
}

// Rows 行数
func (c *Card) Rows() int {
	return len(c.Grid)
}

// Cols 第 row 行的列数
func (c *Card) Cols(row int) int {
	if row < 0 || row >= len(c.Grid) {
		return 0
	}
	return len(c.Grid[row])
}

// Cell 返回指定位置的格子
func (c *Card) Cell(row, col int) (Cell, bool) {
	if col < 0 || col >= c.Cols(row) {
		return Cell{}, false
	}
	return c.Grid[row][col], true
}

// MarkedCount 已标记的格子数（含免费格）
func (c *Card) MarkedCount() int {
	n := 0
	for _, row := range c.Grid {
		for _, cell := range row {
			if cell.Marked {
				n++
			}
		}
	}
	return n
}

// Clone 深拷贝
func (c *Card) Clone() Card {
	out := Card{ID: c.ID, Variant: c.Variant, Grid: make([][]Cell, len(c.Grid))}
	for i, row := range c.Grid {
		out.Grid[i] = make([]Cell, len(row))
		for j, cell := range row {
			if cell.Value != nil {
				v := *cell.Value
				cell.Value = &v
			}
			out.Grid[i][j] = cell
		}
	}
	return out
}

// normalize 恢复格子不变式：免费格总是已标记，空格永不标记
func (c *Card) normalize() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			cell := &c.Grid[i][j]
			switch {
			case cell.Free:
				cell.Marked = true
			case cell.Value == nil:
				cell.Marked = false
			}
		}
	}
}

// Int 返回指向 v 的指针，方便构造格子
func Int(v int) *int {
	return &v
}
