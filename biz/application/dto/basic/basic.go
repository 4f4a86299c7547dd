package basic

// Response 统一响应头
type Response struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}

// Page 分页参数, Page/Size用于偏移分页, Cursor用于游标分页
type Page struct {
	Page   *int64  `json:"page,omitempty" query:"page"`
	Size   *int64  `json:"size,omitempty" query:"size"`
	Cursor *string `json:"cursor,omitempty" query:"cursor"`
}

func (p *Page) GetPage() int64 {
	if p == nil || p.Page == nil {
		return 1
	}
	return *p.Page
}

func (p *Page) GetSize() int64 {
	if p == nil || p.Size == nil {
		return 10
	}
	return *p.Size
}

func (p *Page) GetCursor() string {
	if p == nil || p.Cursor == nil {
		return ""
	}
	return *p.Cursor
}
