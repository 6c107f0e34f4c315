package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("user not found")

type UserDoc struct {
	UserID   int64
	Name     string
	GIFsMade int
	// TileHeight is the preferred tile height; zero means unset.
	TileHeight int
}

// Store persists users and their rendering preferences.
type Store interface {
	// AddUser records a user and reports whether it was not known before.
	AddUser(ctx context.Context, userID int64, name string) (bool, error)
	Find(ctx context.Context, userID int64) (*UserDoc, error)
	TileHeight(ctx context.Context, userID int64) (int, error)
	SetTileHeight(ctx context.Context, userID int64, tileHeight int) error
	IncrementGIFs(ctx context.Context, userID int64) error
	UsersCount(ctx context.Context) (int64, error)
	Disconnect(ctx context.Context) error
}

type Handler struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Store = (*Handler)(nil)

func New(ctx context.Context, uri string) (*Handler, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	coll := client.Database("dumpy_bot").Collection("users")
	return &Handler{
		client: client,
		coll:   coll,
	}, nil
}

func byUserID(userID int64) bson.D {
	return bson.D{{Key: "userid", Value: userID}}
}

func (h *Handler) AddUser(ctx context.Context, userID int64, name string) (bool, error) {
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "name", Value: name}}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "gifsmade", Value: 0},
			{Key: "tileheight", Value: 0},
		}},
	}
	res, err := h.coll.UpdateOne(ctx, byUserID(userID), update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

func (h *Handler) Find(ctx context.Context, userID int64) (*UserDoc, error) {
	var user UserDoc
	err := h.coll.FindOne(ctx, byUserID(userID)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *Handler) TileHeight(ctx context.Context, userID int64) (int, error) {
	user, err := h.Find(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return user.TileHeight, nil
}

func (h *Handler) SetTileHeight(ctx context.Context, userID int64, tileHeight int) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "tileheight", Value: tileHeight}}}}
	_, err := h.coll.UpdateOne(ctx, byUserID(userID), update, options.Update().SetUpsert(true))
	return err
}

func (h *Handler) IncrementGIFs(ctx context.Context, userID int64) error {
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "gifsmade", Value: 1}}}}
	_, err := h.coll.UpdateOne(ctx, byUserID(userID), update, options.Update().SetUpsert(true))
	return err
}

func (h *Handler) UsersCount(ctx context.Context) (int64, error) {
	return h.coll.CountDocuments(ctx, bson.D{})
}

func (h *Handler) Disconnect(ctx context.Context) error {
	return h.client.Disconnect(ctx)
}
