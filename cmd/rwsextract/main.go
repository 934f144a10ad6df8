// This tool writes the audio streams of an RWS container to disk, one file
// per layer, either as raw blocks or wrapped in a WAV or AIFF file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/pflag"

	"github.com/cwbudde/rws"
	"github.com/cwbudde/rws/internal/cli"
	"github.com/cwbudde/rws/internal/wavout"
)

const missingPathMessage = "You must pass the path of the RWS file to extract"

var (
	errMissingPath   = errors.New("missing path argument")
	errUnknownFormat = errors.New("unknown output format")
	errZstdFormat    = errors.New("--zstd only applies to raw output")
	errAIFFCodec     = errors.New("AIFF output needs a PCM or float layer")
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

type options struct {
	outDir  string
	format  string
	zstd    bool
	subsong int
	workers int
	verbose bool
}

func run(args []string, out io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("rwsextract", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.outDir, "out", "o", ".", "directory the streams are written to")
	flagSet.StringVarP(&opts.format, "format", "f", "raw", "output format: raw, wav or aiff")
	flagSet.BoolVar(&opts.zstd, "zstd", false, "compress raw streams with zstd")
	flagSet.IntVarP(&opts.subsong, "subsong", "s", 0, "extract only this stream, counting from 1 (0 extracts all)")
	flagSet.IntVar(&opts.workers, "workers", runtime.GOMAXPROCS(0), "concurrent segment extraction limit")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug details to stderr")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	switch opts.format {
	case "raw", "wav", "aiff":
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, opts.format)
	}

	if opts.zstd && opts.format != "raw" {
		return errZstdFormat
	}

	path := flagSet.Arg(0)
	logger := cli.NewLogger(os.Stderr, opts.verbose)

	c, err := cli.DecodeFile(context.Background(), path, opts.workers, logger)
	if err != nil {
		return err
	}

	layers := make([]*rws.Layer, 0, len(c.Layers))

	if opts.subsong > 0 {
		l, err := c.Subsong(opts.subsong)
		if err != nil {
			return err
		}

		layers = append(layers, l)
	} else {
		for i := range c.Layers {
			layers = append(layers, &c.Layers[i])
		}
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}

	base := fileBase(c.Name(), path)

	for _, l := range layers {
		name := filepath.Join(opts.outDir, fmt.Sprintf("%s_%02d.%s", base, l.Index, extension(opts)))

		if err := writeLayer(name, l, opts); err != nil {
			return fmt.Errorf("failed to write layer %d: %w", l.Index, err)
		}

		logger.Debug("wrote stream", "layer", l.Index, "codec", l.Codec.String(), "bytes", len(l.Data), "path", name)
		fmt.Fprintln(out, name)
	}

	return nil
}

// fileBase names output files after the container, falling back to the
// input file name for unnamed containers.
func fileBase(name, path string) string {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}

		return r
	}, name)
}

func extension(opts options) string {
	switch opts.format {
	case "wav":
		return "wav"
	case "aiff":
		return "aif"
	}

	if opts.zstd {
		return "bin.zst"
	}

	return "bin"
}

func writeLayer(name string, l *rws.Layer, opts options) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	switch opts.format {
	case "wav":
		err = wavout.WriteLayer(f, l)
	case "aiff":
		err = writeAIFF(f, l)
	default:
		err = writeRaw(f, l.Data, opts.zstd)
	}

	if err != nil {
		return err
	}

	return f.Close()
}

func writeRaw(w io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := w.Write(data)
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to compress stream: %w", err)
	}

	return enc.Close()
}

func writeAIFF(w io.WriteSeeker, l *rws.Layer) error {
	buf, err := l.Decode(rws.PCMDecoder)
	if err != nil {
		return fmt.Errorf("%w: %w", errAIFFCodec, err)
	}

	channels := int(l.Config.ChannelCount)
	if channels == 0 {
		channels = 1
	}

	enc := aiff.NewEncoder(w, int(l.Config.SampleRate), 16, channels)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write aiff samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize aiff file: %w", err)
	}

	return nil
}
