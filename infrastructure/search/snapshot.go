package search

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"os"

	"github.com/visearch/visearch/domain/vector"
)

// Snapshot layout (little-endian):
//
//	magic    uint32  0x56495331 ("VIS1")
//	version  uint32
//	dim      uint32
//	count    uint64
//	flags    uint32  bit 0: vectors stored normalized
//	data     count*dim float64, row-major
//	checksum uint32  CRC32 (IEEE) of everything above
const (
	snapshotMagic   uint32 = 0x56495331
	snapshotVersion uint32 = 1

	flagNormalized uint32 = 1 << 0

	snapshotHeaderSize = 4 + 4 + 4 + 8 + 4
)

// ErrBadSnapshot indicates a snapshot file that cannot be decoded.
var ErrBadSnapshot = errors.New("malformed index snapshot")

// Persist writes the index to path as a binary snapshot. The file is written
// to a temporary sibling first and renamed into place so a crash mid-write
// never leaves a truncated snapshot at the target path.
func (x *FlatIndex) Persist(path string) error {
	var buf bytes.Buffer
	header := make([]byte, snapshotHeaderSize)
	binary.LittleEndian.PutUint32(header[0:], snapshotMagic)
	binary.LittleEndian.PutUint32(header[4:], snapshotVersion)
	binary.LittleEndian.PutUint32(header[8:], uint32(x.dim))
	binary.LittleEndian.PutUint64(header[12:], uint64(len(x.vectors)))
	var flags uint32
	if x.normalized {
		flags |= flagNormalized
	}
	binary.LittleEndian.PutUint32(header[20:], flags)
	buf.Write(header)

	row := make([]byte, 8)
	for _, v := range x.vectors {
		for _, f := range v {
			binary.LittleEndian.PutUint64(row, math.Float64bits(f))
			buf.Write(row)
		}
	}

	checksum := crc32.ChecksumIEEE(buf.Bytes())
	binary.LittleEndian.PutUint32(row[:4], checksum)
	buf.Write(row[:4])

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// LoadFlatIndex reads a binary snapshot from path into a new index.
// The snapshot's declared dimension must match dim.
func LoadFlatIndex(path string, dim int) (*FlatIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(data) < snapshotHeaderSize+4 {
		return nil, fmt.Errorf("%w: file too short (%d bytes)", ErrBadSnapshot, len(data))
	}

	body, tail := data[:len(data)-4], data[len(data)-4:]
	if got, want := crc32.ChecksumIEEE(body), binary.LittleEndian.Uint32(tail); got != want {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadSnapshot)
	}
	if magic := binary.LittleEndian.Uint32(body[0:]); magic != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrBadSnapshot, magic)
	}
	if version := binary.LittleEndian.Uint32(body[4:]); version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, version)
	}

	fileDim := int(binary.LittleEndian.Uint32(body[8:]))
	count := binary.LittleEndian.Uint64(body[12:])
	flags := binary.LittleEndian.Uint32(body[20:])

	if fileDim != dim {
		return nil, fmt.Errorf("snapshot dimension %d, want %d: %w",
			fileDim, dim, vector.ErrDimensionMismatch)
	}
	payload := body[snapshotHeaderSize:]
	if want := count * uint64(fileDim) * 8; uint64(len(payload)) != want {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrBadSnapshot, len(payload), want)
	}

	idx, err := NewFlatIndex(dim)
	if err != nil {
		return nil, err
	}
	idx.normalized = flags&flagNormalized != 0
	idx.vectors = make([][]float64, count)
	off := 0
	for i := range idx.vectors {
		row := make([]float64, dim)
		for j := range row {
			row[j] = math.Float64frombits(binary.LittleEndian.Uint64(payload[off:]))
			off += 8
		}
		idx.vectors[i] = row
	}
	return idx, nil
}

// SnapshotInfo describes a snapshot file's header without loading its vectors.
type SnapshotInfo struct {
	version    uint32
	dim        int
	count      int
	normalized bool
}

// Version returns the snapshot format version.
func (i SnapshotInfo) Version() uint32 { return i.version }

// Dimension returns the declared vector dimension.
func (i SnapshotInfo) Dimension() int { return i.dim }

// Count returns the declared vector count.
func (i SnapshotInfo) Count() int { return i.count }

// Normalized reports whether vectors were stored normalized.
func (i SnapshotInfo) Normalized() bool { return i.normalized }

// ReadSnapshotInfo reads and validates a snapshot's header and checksum.
func ReadSnapshotInfo(path string) (SnapshotInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("read snapshot: %w", err)
	}
	if len(data) < snapshotHeaderSize+4 {
		return SnapshotInfo{}, fmt.Errorf("%w: file too short (%d bytes)", ErrBadSnapshot, len(data))
	}
	body, tail := data[:len(data)-4], data[len(data)-4:]
	if got, want := crc32.ChecksumIEEE(body), binary.LittleEndian.Uint32(tail); got != want {
		return SnapshotInfo{}, fmt.Errorf("%w: checksum mismatch", ErrBadSnapshot)
	}
	if magic := binary.LittleEndian.Uint32(body[0:]); magic != snapshotMagic {
		return SnapshotInfo{}, fmt.Errorf("%w: bad magic 0x%08x", ErrBadSnapshot, magic)
	}
	return SnapshotInfo{
		version:    binary.LittleEndian.Uint32(body[4:]),
		dim:        int(binary.LittleEndian.Uint32(body[8:])),
		count:      int(binary.LittleEndian.Uint64(body[12:])),
		normalized: binary.LittleEndian.Uint32(body[20:])&flagNormalized != 0,
	}, nil
}
