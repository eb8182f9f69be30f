package pagination

import "strconv"

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page" validate:"min=1"`
	Size int `json:"size" query:"size" validate:"min=1,max=100"`
}

// ParseOffsetRequest builds a normalized request from raw query values.
// Malformed values fall back to the defaults.
func ParseOffsetRequest(page, size string) OffsetRequest {
	r := OffsetRequest{}
	if v, err := strconv.Atoi(page); err == nil {
		r.Page = v
	}
	if v, err := strconv.Atoi(size); err == nil {
		r.Size = v
	}
	_ = r.Validate()
	return r
}

// Validate validates and normalizes offset pagination parameters
func (r *OffsetRequest) Validate() error {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
	return nil
}

// Offset is the number of rows to skip for this page.
func (r OffsetRequest) Offset() int {
	if r.Page <= 1 {
		return 0
	}
	return (r.Page - 1) * r.Size
}
