package domain

import (
	"encoding/json"
	"strconv"
)

// CartRef 购物车后端 ID 的显式状态：Unresolved 或 Resolved(id)。
// 零值即 Unresolved。
type CartRef struct {
	id int64
}

// UnresolvedCart 尚未从后端加载的购物车引用
func UnresolvedCart() CartRef {
	return CartRef{}
}

// ResolvedCart 已解析的购物车引用；非正数视为未解析
func ResolvedCart(id int64) CartRef {
	if id <= 0 {
		return CartRef{}
	}
	return CartRef{id: id}
}

// ID 返回后端 ID 以及是否已解析
func (r CartRef) ID() (int64, bool) {
	return r.id, r.id > 0
}

// Resolved 是否已解析
func (r CartRef) Resolved() bool {
	return r.id > 0
}

func (r CartRef) String() string {
	return refString(r.id)
}

// MarshalJSON 未解析时输出 null
func (r CartRef) MarshalJSON() ([]byte, error) {
	return marshalRef(r.id)
}

// UnmarshalJSON 解析 null 或正整数
func (r *CartRef) UnmarshalJSON(b []byte) error {
	id, err := unmarshalRef(b)
	if err != nil {
		return err
	}
	*r = ResolvedCart(id)
	return nil
}

// LineRef 购物车行后端 ID 的显式状态，零值即 Unresolved
type LineRef struct {
	id int64
}

// UnresolvedLine 尚未由后端确认的购物车行引用
func UnresolvedLine() LineRef {
	return LineRef{}
}

// ResolvedLine 已解析的购物车行引用；非正数视为未解析
func ResolvedLine(id int64) LineRef {
	if id <= 0 {
		return LineRef{}
	}
	return LineRef{id: id}
}

// ID 返回后端 ID 以及是否已解析
func (r LineRef) ID() (int64, bool) {
	return r.id, r.id > 0
}

// Resolved 是否已解析
func (r LineRef) Resolved() bool {
	return r.id > 0
}

func (r LineRef) String() string {
	return refString(r.id)
}

// MarshalJSON 未解析时输出 null
func (r LineRef) MarshalJSON() ([]byte, error) {
	return marshalRef(r.id)
}

// UnmarshalJSON 解析 null 或正整数
func (r *LineRef) UnmarshalJSON(b []byte) error {
	id, err := unmarshalRef(b)
	if err != nil {
		return err
	}
	*r = ResolvedLine(id)
	return nil
}

func refString(id int64) string {
	if id <= 0 {
		return "unresolved"
	}
	return strconv.FormatInt(id, 10)
}

func marshalRef(id int64) ([]byte, error) {
	if id <= 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(id, 10)), nil
}

func unmarshalRef(b []byte) (int64, error) {
	if string(b) == "null" || len(b) == 0 {
		return 0, nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return 0, err
	}
	return id, nil
}
