package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"minesweeper-agent/internal/agent"
	"minesweeper-agent/internal/board"
	"minesweeper-agent/internal/config"
	"minesweeper-agent/internal/knowledge"
)

var log = logrus.New()

var (
	height    int
	width     int
	mineCount int
	seed      uint64
	quiet     bool
)

func init() {
	flag.IntVar(&height, "height", 8, "board height")
	flag.IntVar(&width, "width", 8, "board width")
	flag.IntVar(&mineCount, "mines", 8, "number of mines")
	flag.Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	flag.BoolVar(&quiet, "quiet", false, "do not print the board after each move")
}

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	rotateHook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   filepath.Join(config.LogDir(), "agent.log"),
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

	agent.Log = log
	knowledge.Log = log
}

func main() {
	flag.Parse()
	setupLogging()

	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	r := rand.New(rand.NewPCG(seed, seed))

	b, err := board.New(height, width, mineCount, r)
	if err != nil {
		log.Fatal(err)
	}

	log.WithFields(logrus.Fields{
		"height": height,
		"width":  width,
		"mines":  mineCount,
		"seed":   seed,
	}).Info("game on")

	a := agent.New(b, r)
	for {
		move, ok, err := a.Step()
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			break
		}
		if !quiet {
			kind := "random"
			if move.Deduced {
				kind = "safe"
			}
			fmt.Printf("opened %s (%s)\n%s\n", move.Cell, kind, a.View())
		}
		if a.Won() || a.Lost() {
			break
		}
	}

	outcome := a.Outcome()
	log.WithFields(logrus.Fields{
		"won":         outcome.Won,
		"lost":        outcome.Lost,
		"moves":       len(outcome.Moves),
		"safeMoves":   outcome.SafeMoves,
		"randomMoves": outcome.RandomMoves,
		"flagged":     len(outcome.Flagged),
	}).Info("game over")

	if outcome.Lost {
		os.Exit(1)
	}
}
