package http

import "time"

type createBudgetReq struct {
	Currency    string  `json:"currency" binding:"required"`
	TotalAmount float64 `json:"totalAmount" binding:"required"`
}

type updateBudgetReq struct {
	Currency    *string  `json:"currency"`
	TotalAmount *float64 `json:"totalAmount"`
}

type createExpenseReq struct {
	Amount  float64    `json:"amount" binding:"required"`
	Date    *time.Time `json:"date"`
	Comment string     `json:"comment"`
}

type updateExpenseReq struct {
	Amount  *float64   `json:"amount"`
	Date    *time.Time `json:"date"`
	Comment *string    `json:"comment"`
}
