package mgoregistry

import (
	"context"
	"github.com/denismitr/imageserver/internal/registry"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"time"
)

type Config struct {
	DB               string
	ImagesCollection string
}

type MongoRegistry struct {
	client *mongo.Client
	images *mongo.Collection
}

// imageRecord is written by the image-management pipeline, _id is the canonical UUID
type imageRecord struct {
	ID        string     `bson:"_id"`
	Extension string     `bson:"extension"`
	CreatedAt time.Time  `bson:"createdAt"`
	DeletedAt *time.Time `bson:"deletedAt"`
}

func New(client *mongo.Client, cfg Config) *MongoRegistry {
	return &MongoRegistry{
		client: client,
		images: client.Database(cfg.DB).Collection(cfg.ImagesCollection),
	}
}

func (r *MongoRegistry) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrapf(registry.ErrRegistryReadFailed, "mongodb ping failed: %v", err)
	}

	return nil
}

func (r *MongoRegistry) Classify(ctx context.Context, imageID string) (registry.Status, error) {
	var record imageRecord

	opts := options.FindOne().SetProjection(bson.M{"deletedAt": 1})
	if err := r.images.FindOne(ctx, bson.M{"_id": imageID}, opts).Decode(&record); err != nil {
		if err == mongo.ErrNoDocuments {
			return registry.Unknown, nil
		}

		return "", errors.Wrapf(registry.ErrRegistryReadFailed, "mongodb could not get image with id %s: %v", imageID, err)
	}

	return mapRecordToStatus(&record), nil
}

func mapRecordToStatus(ir *imageRecord) registry.Status {
	if ir.DeletedAt != nil && !ir.DeletedAt.IsZero() {
		return registry.Deleted
	}

	return registry.Referenced
}
