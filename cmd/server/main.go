// cmd/server/main.go
package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/m32jawad/Arena/internal/arena"
	"github.com/m32jawad/Arena/internal/auth"
	"github.com/m32jawad/Arena/internal/cache"
	"github.com/m32jawad/Arena/internal/database"
	"github.com/m32jawad/Arena/internal/handlers"
	"github.com/m32jawad/Arena/internal/middleware"
)

func main() {
	logger := logrus.New()
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	// persistent signing keys keep staff cookies valid across restarts;
	// without them each boot generates a fresh pair
	if priv, pub := os.Getenv("JWT_PRIVATE_KEY_PATH"), os.Getenv("JWT_PUBLIC_KEY_PATH"); priv != "" && pub != "" {
		if err := auth.InitFromPath(priv, pub); err != nil {
			logger.WithError(err).Fatal("failed to load jwt signing keys")
		}
	} else {
		auth.Init()
	}

	database.ConnectDB()
	defer database.DB.Close()

	var scores arena.Scoreboard
	if err := cache.ConnectRedis(); err != nil {
		logger.WithError(err).Warn("redis unavailable, leaderboard cache disabled")
	} else {
		scores = cache.Board{}
	}

	svc := arena.NewService(database.Store{}, scores, logger)
	feed := handlers.NewFeed(logger)
	svc.OnEvent = feed.Broadcast

	api := handlers.NewAPI(svc, feed, logger)

	server := &http.Server{
		Handler:      middleware.LogMiddleware(logger)(api.Routes()),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	l, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}
