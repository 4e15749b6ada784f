package dto

import "github.com/travel/backend/internal/domain/shared"

// Response is the envelope of every JSON body the API writes
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo is the error half of the envelope. Kind drives the HTTP status,
// Code is the stable machine-readable reason.
type ErrorInfo struct {
	Kind          string   `json:"kind"`
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	RequestID     string   `json:"request_id,omitempty"`
	RequiredRoles []string `json:"required_roles,omitempty"`
	Retryable     bool     `json:"retryable,omitempty"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewPageResponse puts the page items in data and the counters in meta
func NewPageResponse[T any](page shared.Paginated[T]) Response {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return Response{
		Success: true,
		Data:    items,
		Meta: &Meta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

func NewErrorResponse(info ErrorInfo) Response {
	return Response{Error: &info}
}
