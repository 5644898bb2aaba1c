package request

type PaginatedRequest struct {
	Skip  int `json:"skip" validate:"min=0"`
	Limit int `json:"limit" validate:"min=1,max=100"`
}

func (p PaginatedRequest) Offset() int {
	if p.Skip < 0 {
		return 0
	}
	return p.Skip
}

func (p PaginatedRequest) PageLimit() int {
	if p.Limit < 1 {
		return 10
	}
	if p.Limit > 100 {
		return 100
	}
	return p.Limit
}
