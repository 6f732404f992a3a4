package initialize

import (
	"context"
	"github.com/denismitr/goenv"
	"github.com/denismitr/imageserver/internal/media"
	"github.com/denismitr/imageserver/internal/proxy"
	"github.com/denismitr/imageserver/internal/registry"
	"github.com/denismitr/imageserver/internal/registry/mgoregistry"
	"github.com/denismitr/imageserver/internal/storage"
	"github.com/denismitr/imageserver/internal/storage/fsstorage"
	"github.com/denismitr/imageserver/internal/storage/s3storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"os"
	"strings"
	"time"
)

// DotEnv loads .env files when they exist, a missing file is not an error
func DotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		panic("Error loading .env file: " + err.Error())
	}
}

func Logger() *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr

	if strings.EqualFold(stringOrDefault("LOG_FORMAT", "text"), "json") {
		log.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	} else {
		log.Formatter = &logrus.TextFormatter{
			TimestampFormat: time.StampMilli,
			FullTimestamp:   true,
		}
	}

	level, err := logrus.ParseLevel(stringOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		panic(err)
	}
	log.SetLevel(level)

	return log
}

func ShardScheme() media.ShardScheme {
	scheme, err := media.ParseShardScheme(os.Getenv("IMAGES_SHARD_SCHEME"))
	if err != nil {
		panic(err)
	}

	return scheme
}

func StorageFromEnv() storage.Storage {
	switch backend := stringOrDefault("IMAGES_STORAGE", "fs"); backend {
	case "fs":
		return FileStorageFromEnv()
	case "s3":
		return S3StorageFromEnv()
	default:
		panic("unsupported IMAGES_STORAGE " + backend)
	}
}

func FileStorageFromEnv() *fsstorage.FileStorage {
	fs, err := fsstorage.New(goenv.MustString("IMAGES_ROOT"))
	if err != nil {
		panic(err)
	}

	return fs
}

func S3StorageFromEnv() *s3storage.RemoteStorage {
	cfg := s3storage.Config{
		AccessKey:        goenv.MustString("S3_ACCESS_KEY_ID"),
		AccessSecret:     goenv.MustString("S3_SECRET_ACCESS_KEY"),
		AccessToken:      "",
		Region:           goenv.MustString("S3_REGION"),
		Endpoint:         goenv.MustString("S3_ENDPOINT"),
		Bucket:           goenv.MustString("S3_BUCKET"),
		Prefix:           os.Getenv("S3_PREFIX"),
		S3ForcePathStyle: goenv.IsTruthy("S3_FORCE_PATH_STYLE"),
		EnableSSL:        goenv.IsTruthy("S3_SSL"),
	}

	rs, err := s3storage.New(cfg)
	if err != nil {
		panic(err)
	}

	return rs
}

// MongoRegistry connects to MongoDB when MONGODB_URL is set, otherwise missing
// images are simply reported as unknown
func MongoRegistry(connectionTimeout time.Duration) (registry.Registry, func()) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		return registry.Nop{}, func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		panic(err)
	}

	r := mgoregistry.New(client, mgoregistry.Config{
		DB:               goenv.MustString("MONGODB_DATABASE"),
		ImagesCollection: stringOrDefault("MONGODB_IMAGES_COLLECTION", "images"),
	})

	if err := r.Ping(ctx); err != nil {
		panic(err)
	}

	return r, func() {
		if err := client.Disconnect(context.Background()); err != nil {
			panic(err)
		}
	}
}

func ServerConfig() proxy.Config {
	return proxy.Config{
		Port:         stringOrDefault("HTTP_PORT", ":8080"),
		ReadTimeout:  durationOrDefault("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: durationOrDefault("HTTP_WRITE_TIMEOUT", 2*time.Minute),
	}
}

func stringOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return def
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		panic("invalid duration in " + key + ": " + err.Error())
	}

	return d
}
