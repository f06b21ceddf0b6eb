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

	"github.com/martshop/store-api/internal/core/domain"
	"github.com/martshop/store-api/internal/core/ports"
)

const productsCollection = "products"

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

type productDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Category  string             `bson:"category"`
	Price     float64            `bson:"price"`
	Quantity  int                `bson:"quantity"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty"`
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Category:  d.Category,
		Price:     d.Price,
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
		DeletedAt: d.DeletedAt,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := productDoc{
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Quantity:  product.Quantity,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	created := *product
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := notDeleted()
	filter["_id"] = oid

	var doc productDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := notDeleted()
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		bounds := bson.M{}
		if filter.MinPrice != nil {
			bounds["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			bounds["$lte"] = *filter.MaxPrice
		}
		query["price"] = bounds
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	priceOrder := 1
	if filter.PriceDesc {
		priceOrder = -1
	}

	skip := int64(filter.Page-1) * int64(filter.Limit)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(filter.Limit)).
		SetSort(bson.D{{Key: "price", Value: priceOrder}, {Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var products []*domain.Product
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := notDeleted()
	filter["_id"] = oid

	update := bson.M{"$set": bson.M{
		"name":       product.Name,
		"category":   product.Category,
		"price":      product.Price,
		"quantity":   product.Quantity,
		"updated_at": product.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := notDeleted()
	filter["_id"] = oid

	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"deleted_at": now}})
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// EnsureIndexes creates query indexes on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
