package dto

import "time"

// ReportParams scope an ad-hoc report request.
type ReportParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02"`
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// ReturnParams scope a return-assembly request.
type ReturnParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}
