package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/usherasnick/resumable-input/readers"
	"github.com/usherasnick/resumable-input/resumable"
	"github.com/usherasnick/resumable-input/sources"
)

var (
	chunkSize int
	debugmode bool
)

func init() {
	flag.IntVar(&chunkSize, "chunk", 16, "Number of bytes read from stdin per chunk.")
	flag.BoolVar(&debugmode, "debug", false, "Log every suspension and resumption.")
}

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debugmode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if chunkSize <= 0 {
		log.Fatal().Msgf("invalid chunk size %d", chunkSize)
	}

	h := resumable.NewHandle(&resumable.HandleCfg{Name: "stdin"})
	d := resumable.NewDriver(h, readers.Line, func(v interface{}) error {
		_, err := fmt.Println(v)
		return err
	})

	buf := make([]byte, chunkSize)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			h.Extend(sources.Bytes(append([]byte(nil), buf[:n]...)))
			if derr := d.Drive(); derr != nil {
				log.Fatal().Err(derr).Msg("failed to read lines")
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read stdin")
		}
	}

	h.SoftClose()
	if err := d.Drive(); err != nil {
		log.Fatal().Err(err).Msg("failed to read lines")
	}
}
