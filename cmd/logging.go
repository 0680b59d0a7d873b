package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger().
	Level(zerolog.WarnLevel)

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if ctx.GlobalBool("vv") {
		logger = logger.Level(zerolog.DebugLevel)
	}
}
