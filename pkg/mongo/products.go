package mongo

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mimoza-store/storefront-api/pkg/models"
)

var ErrProductNotFound = errors.New("product not found")

// AllBrands is the brand filter value that disables brand filtering,
// matching what the catalog screen sends for "all brands".
const AllBrands = "Todas"

// ListProducts returns products newest first, optionally filtered by exact
// brand and/or a case-insensitive substring match on name, brand or
// category.
func ListProducts(ctx context.Context, brand, search string) ([]models.Product, error) {
	filter := bson.M{}
	if brand != "" && brand != AllBrands {
		filter["brand"] = brand
	}
	if search != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = []bson.M{
			{"name": re},
			{"brand": re},
			{"category": re},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := GetCollection("products").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var product models.Product
	err := GetCollection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DistinctBrands returns the sorted set of non-empty brands.
func DistinctBrands(ctx context.Context) ([]string, error) {
	return distinctField(ctx, "brand")
}

// DistinctCategories returns the sorted set of non-empty categories.
func DistinctCategories(ctx context.Context) ([]string, error) {
	return distinctField(ctx, "category")
}

func distinctField(ctx context.Context, field string) ([]string, error) {
	filter := bson.M{field: bson.M{"$nin": bson.A{nil, ""}}}

	var values []string
	if err := GetCollection("products").Distinct(ctx, field, filter).Decode(&values); err != nil {
		return nil, err
	}
	sort.Strings(values)
	return values, nil
}

// CreateProduct inserts a cleaned payload and returns the stored record.
func CreateProduct(ctx context.Context, fields bson.M) (*models.Product, error) {
	fields["created_at"] = time.Now().UTC()

	res, err := GetCollection("products").InsertOne(ctx, fields)
	if err != nil {
		return nil, err
	}

	id, _ := res.InsertedID.(bson.ObjectID)
	return GetProductByID(ctx, id)
}

// UpdateProduct applies a cleaned payload to the product and returns the
// updated record.
func UpdateProduct(ctx context.Context, id bson.ObjectID, fields bson.M) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := GetCollection("products").
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func DeleteProduct(ctx context.Context, id bson.ObjectID) error {
	res, err := GetCollection("products").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
