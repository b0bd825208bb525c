package mongo

import (
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mimoza-store/storefront-api/pkg/global"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

var requiredIndexes = []IndexConfig{
	// Users Collection Indexes
	{
		CollectionName: "users",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email_unique"),
		},
	},

	// Products Collection Indexes
	// Brand filter on the catalog screen
	{
		CollectionName: "products",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "brand", Value: 1}},
			Options: options.Index().SetName("idx_brand"),
		},
	},
	// Category chips and distinct-category queries
	{
		CollectionName: "products",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	},
	// Newest-first listings and the banner fallback
	{
		CollectionName: "products",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	},

	// Banners Collection Indexes
	{
		CollectionName: "banners",
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "active", Value: 1},
				{Key: "order_index", Value: 1},
			},
			Options: options.Index().SetName("idx_banner_order"),
		},
	},
}

func EnsureIndexes() error {
	log.Println("Starting index creation...")

	for _, idxConfig := range requiredIndexes {
		collection := GetCollection(idxConfig.CollectionName)
		ctx, cancel := global.GetDefaultTimer()
		defer cancel()

		indexName, err := collection.Indexes().CreateOne(ctx, idxConfig.IndexModel)
		if err != nil {
			log.Printf("Error creating index on collection %s: %v",
				idxConfig.CollectionName, err)
			return err
		}

		log.Printf("✓ Created index '%s' on collection '%s'", indexName, idxConfig.CollectionName)
	}

	log.Println("All indexes created successfully!")
	return nil
}

func EnsureIndexesOnStartup() {
	if err := EnsureIndexes(); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
}
