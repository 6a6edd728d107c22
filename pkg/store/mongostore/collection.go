// Package mongostore backs store collections with MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-checkout/pkg/config"
	"github.com/angelmondragon/storefront-checkout/pkg/pagination"
	"github.com/angelmondragon/storefront-checkout/pkg/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client owns the driver connection and the database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB with the decimal-aware registry and verifies the primary is reachable.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	opts := options.Client().ApplyURI(cfg.URI).SetRegistry(NewRegistry())
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Client{client: client, db: client.Database(cfg.Database)}, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

type collection[T any] struct {
	coll *mongo.Collection
	now  func() time.Time
}

// New returns a collection over db.Collection(name).
func New[T any](db *mongo.Database, name string) store.Collection[T] {
	return &collection[T]{coll: db.Collection(name), now: time.Now}
}

func (c *collection[T]) Name() string {
	return c.coll.Name()
}

func (c *collection[T]) GetOne(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, c.translate(ctx, err, "get "+id)
	}
	return &rec, nil
}

func (c *collection[T]) GetList(ctx context.Context, page, perPage int, opts store.ListOptions) (*store.ListResult[T], error) {
	if err := store.ValidateOptions(opts); err != nil {
		return nil, err
	}
	filter, err := toDocument(opts.Filter)
	if err != nil {
		return nil, err
	}
	page = pagination.NormalizePage(page)
	perPage = pagination.NormalizePerPage(perPage)

	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, c.translate(ctx, err, "count")
	}

	findOpts := options.Find().
		SetSkip(int64(pagination.Offset(page, perPage))).
		SetLimit(int64(perPage))
	if len(opts.Sort) > 0 {
		findOpts.SetSort(toSort(opts.Sort))
	}

	items, err := c.find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	return &store.ListResult[T]{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: pagination.TotalPages(int(total), perPage),
		Items:      items,
	}, nil
}

func (c *collection[T]) GetFullList(ctx context.Context, opts store.ListOptions) ([]T, error) {
	if err := store.ValidateOptions(opts); err != nil {
		return nil, err
	}
	filter, err := toDocument(opts.Filter)
	if err != nil {
		return nil, err
	}
	findOpts := options.Find()
	if len(opts.Sort) > 0 {
		findOpts.SetSort(toSort(opts.Sort))
	}
	return c.find(ctx, filter, findOpts)
}

func (c *collection[T]) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, c.translate(ctx, err, "find")
	}
	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, c.translate(ctx, err, "decode")
	}
	return items, nil
}

func (c *collection[T]) Create(ctx context.Context, record *T) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", store.ErrInvalid)
	}
	store.PrepareCreate(record, c.now().UTC())
	if _, err := c.coll.InsertOne(ctx, record); err != nil {
		return c.translate(ctx, err, "create")
	}
	return nil
}

func (c *collection[T]) Update(ctx context.Context, id string, fields store.Fields) error {
	if len(fields) == 0 {
		return nil
	}
	set := bson.M{"updated": c.now().UTC()}
	for name, value := range fields {
		if err := store.ValidateField(name); err != nil {
			return err
		}
		set[fieldName(name)] = value
	}
	return c.updateOne(ctx, id, bson.M{"$set": set}, "update "+id)
}

func (c *collection[T]) Increment(ctx context.Context, id string, deltas store.Fields) error {
	if len(deltas) == 0 {
		return nil
	}
	inc := bson.M{}
	for name, delta := range deltas {
		if err := store.ValidateField(name); err != nil {
			return err
		}
		inc[name] = delta
	}
	update := bson.M{"$inc": inc, "$set": bson.M{"updated": c.now().UTC()}}
	return c.updateOne(ctx, id, update, "increment "+id)
}

func (c *collection[T]) updateOne(ctx context.Context, id string, update bson.M, op string) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return c.translate(ctx, err, op)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, c.coll.Name(), id)
	}
	return nil
}

func (c *collection[T]) translate(ctx context.Context, err error, op string) error {
	name := c.coll.Name()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, name, op)
	case ctx.Err() != nil,
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %s %s: %v", store.ErrUnavailable, name, op, err)
	default:
		return fmt.Errorf("%s %s: %w", name, op, err)
	}
}
