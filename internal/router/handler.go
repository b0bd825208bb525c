package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mimoza-store/storefront-api/pkg/ai"
	"github.com/mimoza-store/storefront-api/pkg/global"
	"github.com/mimoza-store/storefront-api/pkg/models"
	"github.com/mimoza-store/storefront-api/pkg/mongo"
)

func HealthCheck(c *gin.Context) {
	db := mongo.GetDatabase()
	if err := db.Client().Ping(c, nil); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

// GetProducts lists the catalog, optionally filtered by brand and/or a
// free-text search over name, brand and category.
func GetProducts(c *gin.Context) {
	brand := c.Query("brand")
	search := c.Query("search")

	products, err := mongo.ListProducts(c.Request.Context(), brand, search)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get products", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func GetProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	product, err := mongo.GetProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
				{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
			}))
			return
		}
		log.Printf("Error fetching product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

// CreateProduct inserts a product from a raw payload. The payload is
// cleaned first: unknown columns dropped, empty strings stored as null,
// price parsed with comma accepted as the decimal separator.
func CreateProduct(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid JSON format", []global.ValidationError{
			{Field: "body", Message: err.Error(), Code: "json_parse_error"},
		}))
		return
	}

	clean := models.CleanProductPayload(payload)
	if name, ok := clean["name"].(string); !ok || name == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Product name is required", []global.ValidationError{
			{Field: "name", Message: "name is required", Code: "required"},
		}))
		return
	}

	product, err := mongo.CreateProduct(c.Request.Context(), clean)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create product", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

func UpdateProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid JSON format", []global.ValidationError{
			{Field: "body", Message: err.Error(), Code: "json_parse_error"},
		}))
		return
	}

	clean := models.CleanProductPayload(payload)
	if len(clean) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No updates provided", []global.ValidationError{
			{Field: "body", Message: "Request body must contain at least one product field", Code: "empty_updates"},
		}))
		return
	}

	product, err := mongo.UpdateProduct(c.Request.Context(), id, clean)
	if err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
				{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
			}))
			return
		}
		log.Printf("Error updating product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update product", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func DeleteProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	if err := mongo.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
				{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
			}))
			return
		}
		log.Printf("Error deleting product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete product", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Product successfully deleted"}))
}

// DescribeProduct drafts a product description for the admin form.
func DescribeProduct(c *gin.Context) {
	if !ai.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("AI service is not available", nil))
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Brand    string `json:"brand"`
		Category string `json:"category"`
		Subtype  string `json:"subtype"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	description, err := ai.GenerateProductDescription(c.Request.Context(), req.Name, req.Brand, req.Category, req.Subtype)
	if err != nil {
		log.Printf("Error generating description: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to generate description", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"description": description}))
}

func GetBrands(c *gin.Context) {
	brands, err := mongo.DistinctBrands(c.Request.Context())
	if err != nil {
		log.Printf("Error listing brands: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get brands", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(brands))
}

func GetCategories(c *gin.Context) {
	categories, err := mongo.DistinctCategories(c.Request.Context())
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get categories", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}

func GetBanners(c *gin.Context) {
	banners, err := mongo.GetActiveBanners(c.Request.Context())
	if err != nil {
		log.Printf("Error listing banners: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get banners", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(banners))
}

func productIDParam(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid product ID format", []global.ValidationError{
			{Field: "id", Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return bson.ObjectID{}, false
	}
	return id, true
}
