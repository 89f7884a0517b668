package dto

type PageQuery struct {
	Page  int
	Limit int
}

func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	return q
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(query PageQuery, total int64) Pagination {
	pages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	return Pagination{
		Page:  query.Page,
		Limit: query.Limit,
		Total: total,
		Pages: pages,
	}
}
