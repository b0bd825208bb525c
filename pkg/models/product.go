package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product is a catalog record for the storefront.
type Product struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name"`
	Brand       string        `json:"brand" bson:"brand,omitempty"`
	Category    string        `json:"category" bson:"category,omitempty"`
	Subtype     string        `json:"subtype" bson:"subtype,omitempty"`
	Price       float64       `json:"price" bson:"price"`
	ImageURL    string        `json:"image_url" bson:"image_url,omitempty"`
	Description string        `json:"description" bson:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}

// ProductColumns are the only fields a create/update payload may set.
var ProductColumns = []string{"name", "brand", "category", "subtype", "price", "image_url", "description"}

// CleanProductPayload filters a raw payload down to the allowed columns.
// Empty strings become explicit nulls and price goes through locale-aware
// parsing (comma accepted as the decimal separator) before any write.
func CleanProductPayload(input map[string]interface{}) bson.M {
	out := bson.M{}
	for _, k := range ProductColumns {
		v, ok := input[k]
		if !ok {
			continue
		}
		if k == "price" {
			out[k] = ParsePrice(v)
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}

// ParsePrice coerces a JSON value into a price. Strings may use a comma as
// the decimal separator. Anything non-numeric parses to 0.
func ParsePrice(v interface{}) float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}
