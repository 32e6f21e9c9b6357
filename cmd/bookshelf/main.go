package main

import (
	"io/fs"
	stdLog "log"
	"time"

	"github.com/Astemirdum/bookshelf-service/bookshelf/app"
	"github.com/Astemirdum/bookshelf-service/bookshelf/config"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// @title Bookshelf API
// @version 1.0
// @description CRUD service for books with paging and title search.
// @host localhost:8080
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("app.Run ", err)
	}
}
