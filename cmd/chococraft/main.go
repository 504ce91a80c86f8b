package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chococraft/chococraft/config"
	"github.com/chococraft/chococraft/internal/api"
	"github.com/chococraft/chococraft/internal/app"
	"github.com/chococraft/chococraft/internal/webserver"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	confFile = flag.String("c", "chococraft.yml", "config file")
	initDB   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("chococraft", version)
		return
	}

	_ = godotenv.Load()

	cfg := config.LoadConfig(*confFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDB {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	server := webserver.Init(cfg, application.DB())
	api.RegisterRoutes(cfg, application.Checkout())

	go func() {
		if err := server.Listen(); err != nil {
			zap.L().Error("web server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("shutdown error", zap.Error(err))
	}
}
