package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mimoza-store/storefront-api/pkg/models"
)

// GetActiveBanners returns the configured banners in display order. When
// none are configured it falls back to the five newest products with an
// image, mapped into banner shape.
func GetActiveBanners(ctx context.Context) ([]models.Banner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := GetCollection("banners").Find(ctx, bson.M{"active": true}, opts)
	if err == nil {
		banners := []models.Banner{}
		if err := cursor.All(ctx, &banners); err == nil && len(banners) > 0 {
			return banners, nil
		}
	}

	return bannersFromRecentProducts(ctx)
}

func bannersFromRecentProducts(ctx context.Context) ([]models.Banner, error) {
	filter := bson.M{"image_url": bson.M{"$nin": bson.A{nil, ""}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(5)

	cursor, err := GetCollection("products").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	banners := make([]models.Banner, 0, len(products))
	for _, p := range products {
		title := p.Brand
		if title == "" {
			title = "Destaque"
		}
		banners = append(banners, models.Banner{
			ID:        p.ID,
			ImageURL:  p.ImageURL,
			Title:     title,
			Highlight: p.Name,
			Subtitle:  p.Category,
			CTA:       "Conferir",
			Active:    true,
		})
	}
	return banners, nil
}
