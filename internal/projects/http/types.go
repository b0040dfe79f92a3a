package http

type createReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type updateReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}
