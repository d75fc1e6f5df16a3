package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

const (
	collectionCarts     = "carts"
	collectionCartItems = "cart_items"
	collectionProducts  = "products"
)

// CartRepository implements ports.CartRepository using MongoDB.
type CartRepository struct {
	carts *mongo.Collection
	items *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{
		carts: db.Collection(collectionCarts),
		items: db.Collection(collectionCartItems),
	}
}

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerKind string             `bson:"owner_kind"`
	OwnerKey  string             `bson:"owner_key"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type cartItemDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CartID    primitive.ObjectID `bson:"cart_id"`
	ProductID string             `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
	AddedAt   time.Time          `bson:"added_at"`
	Product   []domain.Product   `bson:"product,omitempty"` // $lookup output
}

// FindByOwner retrieves the single cart keyed by (ownerKind, ownerKey).
func (r *CartRepository) FindByOwner(ctx context.Context, kind domain.OwnerKind, key string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cartDoc
	err := r.carts.FindOne(ctx, bson.M{"owner_kind": string(kind), "owner_key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, storeErr("find cart", err)
	}
	return doc.toDomain(), nil
}

// Create inserts a new cart row. The unique (owner_kind, owner_key) index
// turns the get-or-create race into a duplicate-key error, which callers
// resolve with a fresh read.
func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := cartDoc{
		OwnerKind: string(cart.OwnerKind),
		OwnerKey:  cart.OwnerKey,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	res, err := r.carts.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateCart
		}
		return storeErr("create cart", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = oid.Hex()
	}
	return nil
}

// ListItems returns the cart's items with the owning product joined in via
// $lookup. An item whose product_id no longer resolves comes back with an
// empty lookup array and maps to a nil Product; it never fails the query.
func (r *CartRepository) ListItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cartOID, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"cart_id": cartOID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionProducts,
			"localField":   "product_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$sort", Value: bson.M{"added_at": 1}}},
	}

	cursor, err := r.items.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeErr("list items", err)
	}
	defer cursor.Close(ctx)

	var docs []cartItemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeErr("decode items", err)
	}

	items := make([]domain.CartItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toDomain())
	}
	return items, nil
}

// FindItemByProduct returns the cart's row for productID.
func (r *CartRepository) FindItemByProduct(ctx context.Context, cartID, productID string) (*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cartOID, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	var doc cartItemDoc
	err = r.items.FindOne(ctx, bson.M{"cart_id": cartOID, "product_id": productID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, storeErr("find item", err)
	}
	item := doc.toDomain()
	return &item, nil
}

// InsertItem inserts a new item row.
func (r *CartRepository) InsertItem(ctx context.Context, item *domain.CartItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cartOID, err := primitive.ObjectIDFromHex(item.CartID)
	if err != nil {
		return domain.ErrCartNotFound
	}

	doc := cartItemDoc{
		CartID:    cartOID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.AddedAt,
	}
	res, err := r.items.InsertOne(ctx, doc)
	if err != nil {
		return storeErr("insert item", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid.Hex()
	}
	return nil
}

// UpdateItemQuantity overwrites the item's quantity.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return domain.ErrItemNotFound
	}

	res, err := r.items.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"quantity": quantity}})
	if err != nil {
		return storeErr("update quantity", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// DeleteItem removes one item row scoped to the cart. Deleting a row that
// is already gone succeeds (remove is idempotent at this level).
func (r *CartRepository) DeleteItem(ctx context.Context, cartID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cartOID, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.ErrCartNotFound
	}
	itemOID, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		// A malformed id cannot name an existing row; nothing to delete.
		return nil
	}

	_, err = r.items.DeleteOne(ctx, bson.M{"_id": itemOID, "cart_id": cartOID})
	if err != nil {
		return storeErr("delete item", err)
	}
	return nil
}

// DeleteItemsByCart removes every item row under the cart. The cart row
// itself is kept (empty) after retirement.
func (r *CartRepository) DeleteItemsByCart(ctx context.Context, cartID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cartOID, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return domain.ErrCartNotFound
	}

	_, err = r.items.DeleteMany(ctx, bson.M{"cart_id": cartOID})
	if err != nil {
		return storeErr("retire cart", err)
	}
	return nil
}

// EnsureIndexes creates the indexes backing cart identity invariants:
// one cart per owner, one row per product within a cart.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_kind", Value: 1}, {Key: "owner_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "cart_id", Value: 1}, {Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (d cartDoc) toDomain() *domain.Cart {
	return &domain.Cart{
		ID:        d.ID.Hex(),
		OwnerKind: domain.OwnerKind(d.OwnerKind),
		OwnerKey:  d.OwnerKey,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d cartItemDoc) toDomain() domain.CartItem {
	item := domain.CartItem{
		ID:        d.ID.Hex(),
		CartID:    d.CartID.Hex(),
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		AddedAt:   d.AddedAt,
	}
	if len(d.Product) > 0 {
		p := d.Product[0]
		item.Product = &p
	}
	return item
}

// storeErr wraps a driver failure as the transient store error the service
// layer and HTTP mapping key off.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
