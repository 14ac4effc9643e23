package dto

import "time"

// OpenPeriodRequest defines the data needed to open a fiscal period.
type OpenPeriodRequest struct {
	Name       string    `json:"name" binding:"required"`
	FiscalYear int       `json:"fiscalYear" binding:"required,min=1900,max=9999"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required"`
}
