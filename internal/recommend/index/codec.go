// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package index

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	formatName    = "moviesim-flat-ip"
	formatVersion = 1
)

// Header describes a persisted index.
type Header struct {
	// Format identifies the on-disk layout.
	Format string

	// Version is the layout version.
	Version int

	// GenerationID ties the index to its identity sidecar.
	GenerationID string

	// Dimension is the vector dimension.
	Dimension int

	// Count is the number of stored vectors.
	Count int

	// Checksum is the hex SHA-256 of the uncompressed payload.
	Checksum string

	// CreatedAt is when the index was encoded.
	CreatedAt time.Time
}

// storedIndex is the on-disk format for index files.
type storedIndex struct {
	Header         Header
	CompressedData []byte
}

// Encode writes the index to w, tagged with generationID.
func (f *Flat) Encode(w io.Writer, generationID string) error {
	raw := make([]byte, 4*len(f.data))
	for i, x := range f.data {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(x))
	}

	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress index: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	si := storedIndex{
		Header: Header{
			Format:       formatName,
			Version:      formatVersion,
			GenerationID: generationID,
			Dimension:    f.dim,
			Count:        f.Len(),
			Checksum:     hex.EncodeToString(hash[:]),
			CreatedAt:    time.Now().UTC(),
		},
		CompressedData: compressed.Bytes(),
	}

	if err := gob.NewEncoder(w).Encode(si); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

// Decode reads an index written by Encode.
func Decode(r io.Reader) (*Flat, *Header, error) {
	var si storedIndex
	if err := gob.NewDecoder(r).Decode(&si); err != nil {
		return nil, nil, fmt.Errorf("%w: read header: %v", ErrCorrupt, err)
	}

	h := si.Header
	if h.Format != formatName || h.Version != formatVersion {
		return nil, nil, fmt.Errorf("%w: unsupported format %q v%d", ErrCorrupt, h.Format, h.Version)
	}
	if h.Dimension <= 0 || h.Count < 0 {
		return nil, nil, fmt.Errorf("%w: invalid shape %dx%d", ErrCorrupt, h.Count, h.Dimension)
	}

	expected := int64(h.Count) * int64(h.Dimension) * 4

	gzr, err := gzip.NewReader(bytes.NewReader(si.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decompress: %v", ErrCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(io.LimitReader(gzr, expected+1))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read payload: %v", ErrCorrupt, err)
	}
	if int64(len(raw)) != expected {
		return nil, nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorrupt, len(raw), expected)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != h.Checksum {
		return nil, nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrCorrupt, h.Checksum, checksum)
	}

	data := make([]float32, h.Count*h.Dimension)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}

	return &Flat{dim: h.Dimension, data: data}, &h, nil
}
