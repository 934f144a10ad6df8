// Package wavout wraps extracted RWS layer streams in RIFF/WAVE files.
package wavout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"

	"github.com/cwbudde/rws"
)

var (
	errNilWriter   = errors.New("can't write to a nil writer")
	errNilFormat   = errors.New("can't write a nil fmt chunk")
	errDataTooLong = errors.New("data does not fit a wav file")
)

// Encoder writes a single wav file to w.
type Encoder struct {
	w io.Writer

	WrittenBytes int
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// AddLE serializes and adds the passed value using little endian.
func (e *Encoder) AddLE(src any) error {
	e.WrittenBytes += binary.Size(src)

	err := binary.Write(e.w, binary.LittleEndian, src)
	if err != nil {
		return fmt.Errorf("failed to write little endian: %w", err)
	}

	return nil
}

// Write writes the complete file: header, fmt chunk and data chunk.
// Sizes are known up front so w need not be seekable.
func (e *Encoder) Write(f *FmtChunk, data []byte) error {
	if e == nil || e.w == nil {
		return errNilWriter
	}

	if f == nil {
		return errNilFormat
	}

	dataLen := uint64(len(data))
	padded := dataLen + dataLen%2
	riffSize := 4 + 8 + uint64(f.size()) + 8 + padded

	if riffSize > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", errDataTooLong, dataLen)
	}

	if err := e.writeHeader(uint32(riffSize)); err != nil {
		return err
	}

	if err := e.writeFmtChunk(f); err != nil {
		return err
	}

	if err := e.AddLE(riff.DataFormatID); err != nil {
		return fmt.Errorf("error encoding sound header %w", err)
	}

	if err := e.AddLE(uint32(dataLen)); err != nil {
		return fmt.Errorf("%w when writing wav data chunk size header", err)
	}

	n, err := e.w.Write(data)
	e.WrittenBytes += n

	if err != nil {
		return fmt.Errorf("failed to write data chunk payload: %w", err)
	}

	if dataLen%2 == 1 {
		n, err := e.w.Write([]byte{0})
		e.WrittenBytes += n

		if err != nil {
			return fmt.Errorf("failed to write data chunk padding: %w", err)
		}
	}

	return nil
}

func (e *Encoder) writeHeader(size uint32) error {
	err := e.AddLE(riff.RiffID)
	if err != nil {
		return err
	}

	err = e.AddLE(size)
	if err != nil {
		return err
	}

	return e.AddLE(riff.WavFormatID)
}

func (e *Encoder) writeFmtChunk(f *FmtChunk) error {
	err := e.AddLE(riff.FmtID)
	if err != nil {
		return err
	}

	err = e.AddLE(f.size())
	if err != nil {
		return err
	}

	err = e.AddLE(f.FormatTag)
	if err != nil {
		return err
	}

	err = e.AddLE(f.NumChannels)
	if err != nil {
		return fmt.Errorf("error encoding the number of channels - %w", err)
	}

	err = e.AddLE(f.SampleRate)
	if err != nil {
		return fmt.Errorf("error encoding the sample rate - %w", err)
	}

	err = e.AddLE(f.AvgBytesPerSec)
	if err != nil {
		return fmt.Errorf("error encoding the avg bytes per sec - %w", err)
	}

	err = e.AddLE(f.BlockAlign)
	if err != nil {
		return err
	}

	err = e.AddLE(f.BitsPerSample)
	if err != nil {
		return fmt.Errorf("error encoding bits per sample - %w", err)
	}

	if f.FormatTag != wavFormatIMAADPCM {
		return nil
	}

	// cbSize followed by samplesPerBlock.
	err = e.AddLE(uint16(2))
	if err != nil {
		return fmt.Errorf("error encoding fmt extension length - %w", err)
	}

	err = e.AddLE(f.SamplesPerBlock)
	if err != nil {
		return fmt.Errorf("error encoding samples per block - %w", err)
	}

	return nil
}

// WriteLayer writes l as a wav file to w.
func WriteLayer(w io.Writer, l *rws.Layer) error {
	f, err := FormatFor(l)
	if err != nil {
		return err
	}

	return NewEncoder(w).Write(f, l.Data)
}
