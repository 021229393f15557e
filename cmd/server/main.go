package main

import (
	"context"
	"hash/maphash"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"minesweeper-agent/internal/config"
	"minesweeper-agent/internal/database"
	"minesweeper-agent/internal/handlers"
	"minesweeper-agent/internal/knowledge"
	"minesweeper-agent/internal/middleware"
	"minesweeper-agent/migrations"
)

var log = logrus.New()

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	rotateHook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   filepath.Join(config.LogDir(), "server.log"),
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logrus.DebugLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		log.Warn("unable to set up log file: ", err)
	} else {
		log.AddHook(rotateHook)
	}

	knowledge.Log = log
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	setupLogging()

	db, err := database.ConnectAndMigrate(mainCtx, migrations.FS)
	if err != nil {
		log.Fatal("unable to connect to database: ", err)
	}
	defer db.Close()

	ws, err := config.NewWebSocket()
	if err != nil {
		log.Fatal("unable to configure websockets: ", err)
	}

	tokens, err := config.NewJWT()
	if err != nil {
		log.Fatal("unable to configure watch tokens: ", err)
	}

	watch := handlers.NewWatchHandler(log, db, ws, tokens, createRand())
	records := handlers.NewRecordsHandler(log, db)

	router := http.NewServeMux()
	router.HandleFunc("POST /watch", watch.Create)
	router.HandleFunc("GET /watch/{id}/connect", watch.Connect)
	router.HandleFunc("GET /records", records.List)

	server := &http.Server{
		Addr: config.Addr(),
		Handler: middleware.Wrap(
			router,
			middleware.Logging(log),
			middleware.Cors(),
		),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", server.Addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Printf("exit reason: %s\n", err)
	}
}
