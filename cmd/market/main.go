package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/book-exchange/market/app"
	"github.com/Astemirdum/book-exchange/market/config"
)

// @title        Book exchange market API
// @version      1.0
// @BasePath     /api/v1
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
