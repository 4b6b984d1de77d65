package domain

// CartLine 购物车行
type CartLine struct {
	Ref      LineRef `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"` // 始终 >= 1
}

// Subtotal 行小计（最小货币单位）
func (l CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Cart 当前用户的购物车快照
type Cart struct {
	Ref    CartRef    `json:"id"`
	UserID int64      `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// EmptyCart 返回指定用户的空购物车，Ref 保持传入值
func EmptyCart(userID int64, ref CartRef) Cart {
	return Cart{Ref: ref, UserID: userID, Lines: []CartLine{}}
}

// Clone 深拷贝，订阅者拿到的切片与 store 内部互不影响
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

// IsEmpty 是否没有任何行
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount 商品总件数
func (c Cart) ItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Total 购物车合计（最小货币单位）
func (c Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Subtotal()
	}
	return total
}

// LineByProduct 按商品 ID 查找购物车行
func (c Cart) LineByProduct(productID int64) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.Product.ID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}

// LineByRef 按行引用查找购物车行
func (c Cart) LineByRef(ref LineRef) (CartLine, bool) {
	id, ok := ref.ID()
	if !ok {
		return CartLine{}, false
	}
	for _, line := range c.Lines {
		if lineID, resolved := line.Ref.ID(); resolved && lineID == id {
			return line, true
		}
	}
	return CartLine{}, false
}
