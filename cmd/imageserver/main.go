package main

import (
	"github.com/denismitr/imageserver/cmd/initialize"
	"github.com/denismitr/imageserver/internal/proxy"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	initialize.DotEnv()

	log := initialize.Logger()

	registry, closeRegistry := initialize.MongoRegistry(10 * time.Second)
	defer closeRegistry()

	storage := initialize.StorageFromEnv()

	imageProxy := proxy.NewShardedImageProxy(log, storage, registry, initialize.ShardScheme())
	server := proxy.NewServer(initialize.ServerConfig(), log, imageProxy)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGTERM, syscall.SIGINT)

	if err := server.Run(stopCh, 10*time.Second); err != nil {
		log.WithError(err).Errorln("image server stopped")
		panic(err)
	}
}
