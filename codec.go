// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/woozymasta/lzss"
)

// sizePrefixLen is the little-endian decoded size header of LZSS and LZ4 payloads.
const sizePrefixLen = 4

// DefaultMaxDecodedSize caps the decoded size a transform loader accepts.
const DefaultMaxDecodedSize = 256 << 20

// Codec names reported by DecodeInfo.
const (
	CodecLZSS = "lzss"
	CodecLZ4  = "lz4"
	CodecZstd = "zstd"
)

// DecodeInfo is attached to handles produced by transform loaders.
type DecodeInfo struct {
	// Codec is the payload codec name.
	Codec string `json:"codec" yaml:"codec"`
	// RawSize is the stored payload size.
	RawSize int `json:"raw_size" yaml:"raw_size"`
	// DecodedSize is the handle buffer size.
	DecodedSize int `json:"decoded_size" yaml:"decoded_size"`
}

// String formats decode info for logs.
func (d *DecodeInfo) String() string {
	return fmt.Sprintf("%s %d -> %d bytes", d.Codec, d.RawSize, d.DecodedSize)
}

// CodecLoaderOptions configures transform loaders.
type CodecLoaderOptions struct {
	// KeepRaw keeps the compressed payload on the handle (see Handle.Raw).
	KeepRaw bool `json:"keep_raw,omitempty" yaml:"keep_raw,omitempty"`
	// MaxDecodedSize rejects payloads that decode to more bytes (zero means DefaultMaxDecodedSize).
	MaxDecodedSize int `json:"max_decoded_size,omitempty" yaml:"max_decoded_size,omitempty"`
}

// applyDefaults fills zero-valued codec options with defaults.
func (opts *CodecLoaderOptions) applyDefaults() {
	if opts.MaxDecodedSize <= 0 {
		opts.MaxDecodedSize = DefaultMaxDecodedSize
	}
}

// codecLoader holds behavior shared by transform loaders.
type codecLoader struct {
	pattern string
	opts    CodecLoaderOptions
}

func (l *codecLoader) Pattern() string                 { return l.pattern }
func (l *codecLoader) UseRawFile() bool                { return false }
func (l *codecLoader) DiscardRawBufferAfterLoad() bool { return !l.opts.KeepRaw }
func (l *codecLoader) AddNullZero() bool               { return false }

// checkSize rejects decoded sizes above the configured limit.
func (l *codecLoader) checkSize(size int) (int, error) {
	if size > l.opts.MaxDecodedSize {
		return 0, fmt.Errorf("%w: decoded size %d exceeds limit %d", ErrInvalidSize, size, l.opts.MaxDecodedSize)
	}

	return size, nil
}

func newCodecLoader(pattern string, opts CodecLoaderOptions) codecLoader {
	opts.applyDefaults()
	return codecLoader{pattern: pattern, opts: opts}
}

// LZSSLoader decodes size-prefixed LZSS payloads.
type LZSSLoader struct {
	codecLoader
}

// NewLZSSLoader creates an LZSS loader for pattern.
func NewLZSSLoader(pattern string, opts CodecLoaderOptions) *LZSSLoader {
	return &LZSSLoader{newCodecLoader(pattern, opts)}
}

// LoadedResourceSize reads the size prefix.
func (l *LZSSLoader) LoadedResourceSize(raw []byte) (int, error) {
	size, err := prefixedSize(raw)
	if err != nil {
		return 0, err
	}

	return l.checkSize(size)
}

// LoadResource decompresses the LZSS stream after the size prefix.
func (l *LZSSLoader) LoadResource(raw []byte, h *Handle) error {
	dst := h.Bytes()
	if len(dst) > 0 {
		w := bytes.NewBuffer(dst[:0])
		if _, err := lzss.DecompressToWriter(w, bytes.NewReader(raw[sizePrefixLen:]), len(dst), nil); err != nil {
			return err
		}
		if w.Len() != len(dst) {
			return fmt.Errorf("lzss decoded %d bytes, want %d", w.Len(), len(dst))
		}

		copy(dst, w.Bytes())
	}

	h.SetExtra(&DecodeInfo{Codec: CodecLZSS, RawSize: len(raw), DecodedSize: len(dst)})
	return nil
}

// LZ4Loader decodes size-prefixed LZ4 block payloads.
type LZ4Loader struct {
	codecLoader
}

// NewLZ4Loader creates an LZ4 loader for pattern.
func NewLZ4Loader(pattern string, opts CodecLoaderOptions) *LZ4Loader {
	return &LZ4Loader{newCodecLoader(pattern, opts)}
}

// LoadedResourceSize reads the size prefix.
func (l *LZ4Loader) LoadedResourceSize(raw []byte) (int, error) {
	size, err := prefixedSize(raw)
	if err != nil {
		return 0, err
	}

	return l.checkSize(size)
}

// LoadResource decompresses the LZ4 block after the size prefix.
func (l *LZ4Loader) LoadResource(raw []byte, h *Handle) error {
	dst := h.Bytes()
	if len(dst) > 0 {
		n, err := lz4.UncompressBlock(raw[sizePrefixLen:], dst)
		if err != nil {
			return err
		}
		if n != len(dst) {
			return fmt.Errorf("lz4 decoded %d bytes, want %d", n, len(dst))
		}
	}

	h.SetExtra(&DecodeInfo{Codec: CodecLZ4, RawSize: len(raw), DecodedSize: len(dst)})
	return nil
}

// ZstdLoader decodes zstd frames. The decoded size comes from the frame header
// when present, otherwise from a counting decode bounded by MaxDecodedSize.
type ZstdLoader struct {
	codecLoader
}

// NewZstdLoader creates a zstd loader for pattern.
func NewZstdLoader(pattern string, opts CodecLoaderOptions) *ZstdLoader {
	return &ZstdLoader{newCodecLoader(pattern, opts)}
}

// LoadedResourceSize returns the frame content size.
func (l *ZstdLoader) LoadedResourceSize(raw []byte) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	var hdr zstd.Header
	if err := hdr.Decode(raw); err == nil && hdr.HasFCS {
		if hdr.FrameContentSize > uint64(l.opts.MaxDecodedSize) {
			return l.checkSize(l.opts.MaxDecodedSize + 1)
		}

		return int(hdr.FrameContentSize), nil
	}

	return l.countDecoded(raw)
}

// countDecoded streams raw through a decoder and discards the output, stopping
// one byte past the limit.
func (l *ZstdLoader) countDecoded(raw []byte) (int, error) {
	limit := int64(l.opts.MaxDecodedSize)
	dec, err := zstd.NewReader(bytes.NewReader(raw),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limit)+1),
	)
	if err != nil {
		return 0, err
	}
	defer dec.Close()

	n, err := io.Copy(io.Discard, io.LimitReader(dec, limit+1))
	if err != nil {
		return 0, err
	}

	return l.checkSize(int(n))
}

// LoadResource decompresses raw into the handle buffer.
func (l *ZstdLoader) LoadResource(raw []byte, h *Handle) error {
	dst := h.Bytes()
	if len(raw) > 0 {
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		out, err := dec.DecodeAll(raw, dst[:0])
		if err != nil {
			return err
		}
		if len(out) != len(dst) {
			return fmt.Errorf("zstd decoded %d bytes, want %d", len(out), len(dst))
		}

		copy(dst, out)
	}

	h.SetExtra(&DecodeInfo{Codec: CodecZstd, RawSize: len(raw), DecodedSize: len(dst)})
	return nil
}

// EncodeLZSS produces a payload readable by LZSSLoader.
func EncodeLZSS(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return sizePrefix(0), nil
	}

	compressed, err := lzss.Compress(data, lzss.DefaultCompressOptions())
	if err != nil {
		return nil, err
	}

	return append(sizePrefix(len(data)), compressed...), nil
}

// EncodeLZ4 produces a payload readable by LZ4Loader.
func EncodeLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return sizePrefix(0), nil
	}

	out := make([]byte, sizePrefixLen+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))
	n, err := lz4.CompressBlock(data, out[sizePrefixLen:], nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("lz4 produced no output for %d bytes", len(data))
	}

	return out[:sizePrefixLen+n], nil
}

// EncodeZstd produces a payload readable by ZstdLoader.
func EncodeZstd(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// prefixedSize reads the little-endian size header.
func prefixedSize(raw []byte) (int, error) {
	if len(raw) < sizePrefixLen {
		return 0, fmt.Errorf("%w: %d byte payload has no size prefix", ErrInvalidSize, len(raw))
	}

	return int(binary.LittleEndian.Uint32(raw)), nil
}

// sizePrefix encodes n as a size header.
func sizePrefix(n int) []byte {
	out := make([]byte, sizePrefixLen)
	binary.LittleEndian.PutUint32(out, uint32(n))
	return out
}

// zstd encoder/decoder pools
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}

	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}

	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}
