package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ListParams carries pagination and sorting shared by list endpoints.
type ListParams struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"perPage" binding:"omitempty,min=1,max=100"`
	Sort    string `form:"sort"`
	Order   string `form:"order" binding:"omitempty,oneof=ASC DESC"`
}

// Limit returns the LIMIT/OFFSET pair, or a zero limit for "everything".
func (p ListParams) Limit() (limit, offset int) {
	if p.Page == 0 || p.PerPage == 0 {
		return 0, 0
	}
	return p.PerPage, (p.Page - 1) * p.PerPage
}
