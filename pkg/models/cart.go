package models

// Request bodies for the cart endpoints. The cart itself lives in pkg/cart.

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type UpdateCartItemRequest struct {
	// Delta is applied to the current quantity; the container clamps the
	// result at 1.
	Delta int `json:"delta" binding:"required"`
}

type SetCouponRequest struct {
	Code string `json:"code"`
}
