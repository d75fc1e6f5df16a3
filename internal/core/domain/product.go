package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

// Product is the read-only catalogue projection joined onto cart items.
// This subsystem never writes products.
type Product struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Price     float64   `json:"price" bson:"price"`
	Currency  string    `json:"currency" bson:"currency"`
	ImageURL  string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Stock     int       `json:"stock" bson:"stock"`
	Available bool      `json:"available" bson:"available"`
	VendorID  string    `json:"vendor_id,omitempty" bson:"vendor_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
