// This tool prints the layout of an RWS audio container: its segments,
// layers, codecs and a BLAKE3 digest of every extracted stream.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/rws"
	"github.com/cwbudde/rws/internal/cli"
)

const missingPathMessage = "You must pass the path of the RWS file to inspect"

var (
	errMissingPath   = errors.New("missing path argument")
	errUnknownFormat = errors.New("unknown output format")
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

type manifest struct {
	Name          string         `yaml:"name"`
	UUID          string         `yaml:"uuid"`
	Version       string         `yaml:"version"`
	DataSize      uint32         `yaml:"data_size"`
	Segments      []segmentEntry `yaml:"segments"`
	Layers        []layerEntry   `yaml:"layers"`
	UnknownChunks []chunkEntry   `yaml:"unknown_chunks,omitempty"`
	Warnings      []string       `yaml:"warnings,omitempty"`
}

type segmentEntry struct {
	Index       int    `yaml:"index"`
	Offset      uint64 `yaml:"offset"`
	Size        uint64 `yaml:"size"`
	Interleaved bool   `yaml:"interleaved"`
	Unit        uint32 `yaml:"unit,omitempty"`
	Layers      []int  `yaml:"layers"`
}

type layerEntry struct {
	Index         int    `yaml:"index"`
	Segment       int    `yaml:"segment"`
	Stream        string `yaml:"stream"`
	Codec         string `yaml:"codec"`
	CodecUUID     string `yaml:"codec_uuid"`
	SampleRate    uint32 `yaml:"sample_rate"`
	Channels      uint8  `yaml:"channels"`
	BitsPerSample uint8  `yaml:"bits_per_sample"`
	BlockSize     uint32 `yaml:"block_size"`
	BlockSizePad  uint32 `yaml:"block_size_pad"`
	Interleave    uint16 `yaml:"interleave,omitempty"`
	Bytes         int    `yaml:"bytes"`
	Samples       int    `yaml:"samples"`
	Duration      string `yaml:"duration"`
	DSP           bool   `yaml:"dsp,omitempty"`
	Invalid       string `yaml:"invalid,omitempty"`
	BLAKE3        string `yaml:"blake3"`
}

type chunkEntry struct {
	ID         string `yaml:"id"`
	Offset     int    `yaml:"offset"`
	Size       uint32 `yaml:"size"`
	BeforeData bool   `yaml:"before_data"`
}

func newManifest(c *rws.Container) manifest {
	m := manifest{
		Name:     c.Name(),
		UUID:     c.UUID().String(),
		Version:  fmt.Sprintf("0x%08x", c.Header.Version),
		DataSize: c.AudioHeader.DataSize,
	}

	for _, si := range c.Index.Segments {
		entry := segmentEntry{
			Index:       si.Segment,
			Offset:      si.Offset,
			Size:        si.Size,
			Interleaved: si.Interleaved,
			Unit:        si.Unit,
		}

		for _, l := range si.Layers {
			entry.Layers = append(entry.Layers, l.Layer)
		}

		m.Segments = append(m.Segments, entry)
	}

	for i := range c.Layers {
		l := &c.Layers[i]
		digest := l.Digest()

		entry := layerEntry{
			Index:         l.Index,
			Segment:       l.Segment,
			Stream:        l.StreamName(c.Name()),
			Codec:         l.Codec.String(),
			CodecUUID:     l.Codec.UUID.String(),
			SampleRate:    l.Config.SampleRate,
			Channels:      l.Config.ChannelCount,
			BitsPerSample: l.Config.BitsPerSample,
			BlockSize:     l.Geometry.BlockSize,
			BlockSizePad:  l.Geometry.BlockSizePad,
			Interleave:    l.Geometry.Interleave,
			Bytes:         len(l.Data),
			Samples:       l.EstimatedSamples(),
			Duration:      l.Duration().String(),
			DSP:           l.DSP != nil,
			BLAKE3:        hex.EncodeToString(digest[:]),
		}

		if err := l.Validate(); err != nil {
			entry.Invalid = err.Error()
		}

		m.Layers = append(m.Layers, entry)
	}

	for _, ch := range c.UnknownChunks {
		m.UnknownChunks = append(m.UnknownChunks, chunkEntry{
			ID:         fmt.Sprintf("0x%08x", ch.ID),
			Offset:     ch.Offset,
			Size:       ch.Size,
			BeforeData: ch.BeforeData,
		})
	}

	for _, w := range c.Warnings {
		m.Warnings = append(m.Warnings, w.Error())
	}

	return m
}

func run(args []string, out io.Writer) error {
	var (
		format  string
		workers int
		verbose bool
	)

	flagSet := pflag.NewFlagSet("rwsinfo", pflag.ContinueOnError)
	flagSet.StringVar(&format, "format", "yaml", "output format: yaml or text")
	flagSet.IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "concurrent segment extraction limit")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() < 1 {
		return errMissingPath
	}

	path := flagSet.Arg(0)
	logger := cli.NewLogger(os.Stderr, verbose)

	c, err := cli.DecodeFile(context.Background(), path, workers, logger)
	if err != nil {
		return err
	}

	m := newManifest(c)

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)

		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("failed to encode manifest: %w", err)
		}

		return enc.Close()
	case "text":
		printText(out, m)
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

func printText(out io.Writer, m manifest) {
	fmt.Fprintf(out, "Name: %s\n", m.Name)
	fmt.Fprintf(out, "UUID: %s\n", m.UUID)
	fmt.Fprintf(out, "Version: %s\n", m.Version)
	fmt.Fprintf(out, "Data size: %d\n", m.DataSize)

	for _, s := range m.Segments {
		fmt.Fprintf(out, "segment [%d]:\toffset %d, %d bytes, interleaved %t, layers %v\n",
			s.Index, s.Offset, s.Size, s.Interleaved, s.Layers)
	}

	for _, l := range m.Layers {
		fmt.Fprintf(out, "layer [%d]:\t%s, %s, %d Hz, %d ch, %d bytes, %s, blake3 %s\n",
			l.Index, l.Stream, l.Codec, l.SampleRate, l.Channels, l.Bytes, l.Duration, l.BLAKE3)
	}

	for _, ch := range m.UnknownChunks {
		fmt.Fprintf(out, "unknown chunk:\t%s at %d, %d bytes\n", ch.ID, ch.Offset, ch.Size)
	}

	for _, w := range m.Warnings {
		fmt.Fprintf(out, "warning:\t%s\n", w)
	}
}
