package request

type CreateReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}
