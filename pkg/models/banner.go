package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Banner is a home-screen highlight. When no banners are configured the
// storefront falls back to recent products mapped into this shape.
type Banner struct {
	ID         bson.ObjectID `json:"id" bson:"_id,omitempty"`
	ImageURL   string        `json:"image_url" bson:"image_url"`
	Title      string        `json:"title" bson:"title"`
	Highlight  string        `json:"highlight" bson:"highlight,omitempty"`
	Subtitle   string        `json:"subtitle" bson:"subtitle,omitempty"`
	CTA        string        `json:"cta" bson:"cta,omitempty"`
	Active     bool          `json:"active" bson:"active"`
	OrderIndex int           `json:"order_index" bson:"order_index"`
}
