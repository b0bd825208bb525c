package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mimoza-store/storefront-api/pkg/cart"
	"github.com/mimoza-store/storefront-api/pkg/global"
	"github.com/mimoza-store/storefront-api/pkg/models"
	"github.com/mimoza-store/storefront-api/pkg/mongo"
)

// cartFor resolves the owner's container. The owner id is the client's
// session id; guests get a client-generated id, so any non-empty value is
// accepted.
func cartFor(c *gin.Context) (*cart.Container, bool) {
	owner := c.Param("sessionId")
	if owner == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Session ID required", []global.ValidationError{
			{Field: "sessionId", Message: "Session ID is required", Code: "required"},
		}))
		return nil, false
	}
	return carts.For(owner), true
}

func GetCart(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(container.Snapshot()))
}

// AddToCart looks the product up in the catalog and adds it to the cart,
// capturing its name and price at this instant.
func AddToCart(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "product_id", Message: "product_id is required", Code: "required"},
		}))
		return
	}

	id, err := bson.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "product_id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return
	}

	product, err := mongo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
				{Field: "product_id", Message: "No product exists with this ID", Code: "not_found"},
			}))
			return
		}
		log.Printf("Error fetching product for cart: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	container.AddToCart(&cart.Product{
		ID:    product.ID.Hex(),
		Name:  product.Name,
		Price: product.Price,
	})

	c.JSON(http.StatusOK, global.SuccessResponse(container.Snapshot()))
}

// UpdateCartItem applies a quantity delta to a line item. The container
// clamps the result at 1; removing a line is its own endpoint.
func UpdateCartItem(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "delta", Message: "delta is required and must be a non-zero integer", Code: "required"},
		}))
		return
	}

	container.UpdateQty(c.Param("productId"), req.Delta)
	c.JSON(http.StatusOK, global.SuccessResponse(container.Snapshot()))
}

func RemoveFromCart(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}

	container.RemoveItem(c.Param("productId"))
	c.JSON(http.StatusOK, global.SuccessResponse(container.Snapshot()))
}

func ClearCart(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}

	container.ClearCart()
	c.JSON(http.StatusOK, global.SuccessResponse(container.Snapshot()))
}

// SetCoupon stores the raw code; validity shows up in the returned
// snapshot.
func SetCoupon(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}

	var req models.SetCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "code", Message: "code must be a string", Code: "validation_error"},
		}))
		return
	}

	container.SetCoupon(req.Code)
	c.JSON(http.StatusOK, global.SuccessResponse(container.Snapshot()))
}

func GetFavorites(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(container.Favorites()))
}

func ToggleFavorite(c *gin.Context) {
	container, ok := cartFor(c)
	if !ok {
		return
	}

	productID := c.Param("productId")
	container.ToggleFavorite(productID)
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"favorites": container.Favorites(),
		"favorited": container.IsFavorite(productID),
	}))
}
