package repository

import "gorm.io/gorm"

// ProductListFilter 商品列表过滤条件
type ProductListFilter struct {
	Type       string
	Search     string
	Page       int
	PageSize   int
	OnlyActive bool
}

// paginate 应用分页，pageSize <= 0 表示不分页
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
