// Package rws decodes RWS audio containers.
//
// An RWS file is a top-level header followed by chunks: an audio header
// describing segments and layers, and a data chunk holding the compressed
// blocks. Decode resolves that geometry, validates it against the data
// payload and returns one Layer per audio substream with its codec, playback
// parameters, optional DSP ADPCM coefficient tables and the raw block stream
// with padding and interleaving removed.
//
// Sample decoding is left to the caller through the SampleDecoder interface.
//
//	c, err := rws.Decode(buf)
//	if err != nil {
//		return err
//	}
//	for _, l := range c.Layers {
//		fmt.Println(l.StreamName(c.Name()), l.Codec, len(l.Data))
//	}
//
// Errors wrap one of ErrBadMagic, ErrSizeMismatch, ErrTruncatedStream,
// ErrBadNameEncoding, ErrGeometryOverflow or ErrUnexpectedChunk and carry a
// *FormatError with the offending offset. Unrecognized codecs are reported as
// ErrUnknownCodec in Container.Warnings and do not stop extraction.
package rws
