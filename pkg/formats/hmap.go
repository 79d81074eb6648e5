// Package formats implements codecs for terrain data files.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/Faultbox/terracast/pkg/math"
	"github.com/Faultbox/terracast/pkg/terrain"
)

// HMAP format errors.
var (
	ErrInvalidHMAPMagic   = errors.New("invalid HMAP magic: expected 'HMAP'")
	ErrInvalidHMAPVersion = errors.New("unsupported HMAP version")
	ErrHMAPTruncated      = errors.New("truncated HMAP data")
	ErrHMAPChecksum       = errors.New("HMAP checksum mismatch")
)

// HMAPVersion is the container version this codec reads and writes.
const HMAPVersion uint16 = 1

// hmapHeaderSize covers magic, version, dimensions, scales and the sample
// payload checksum.
const hmapHeaderSize = 4 + 2 + 4 + 4 + 4 + 4 + 4 + 8

// maxHMAPDimension bounds each grid axis so a corrupt header cannot force a
// huge allocation.
const maxHMAPDimension = 16384

// ParseHMAP parses a heightmap container from raw bytes. The layout is
// little-endian: magic "HMAP", version, width and height (uint32), world
// scale X/Z and vertical scale (float32), an xxhash64 of the sample payload,
// then width*height float32 samples in row-major z*width+x order. Height
// bounds are recomputed, not stored.
func ParseHMAP(data []byte) (*terrain.Heightmap, error) {
	if len(data) < hmapHeaderSize {
		return nil, ErrHMAPTruncated
	}
	if string(data[0:4]) != "HMAP" {
		return nil, ErrInvalidHMAPMagic
	}

	r := bytes.NewReader(data[4:])

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrHMAPTruncated)
	}
	if version != HMAPVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHMAPVersion, version)
	}

	var width, height uint32
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrHMAPTruncated)
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return nil, fmt.Errorf("%w: reading height", ErrHMAPTruncated)
	}
	if width == 0 || height == 0 || width > maxHMAPDimension || height > maxHMAPDimension {
		return nil, fmt.Errorf("invalid HMAP dimensions: %dx%d", width, height)
	}

	var scaleX, scaleZ, verticalScale float32
	if err := binary.Read(r, binary.LittleEndian, &scaleX); err != nil {
		return nil, fmt.Errorf("%w: reading scale", ErrHMAPTruncated)
	}
	if err := binary.Read(r, binary.LittleEndian, &scaleZ); err != nil {
		return nil, fmt.Errorf("%w: reading scale", ErrHMAPTruncated)
	}
	if err := binary.Read(r, binary.LittleEndian, &verticalScale); err != nil {
		return nil, fmt.Errorf("%w: reading vertical scale", ErrHMAPTruncated)
	}

	var checksum uint64
	if err := binary.Read(r, binary.LittleEndian, &checksum); err != nil {
		return nil, fmt.Errorf("%w: reading checksum", ErrHMAPTruncated)
	}

	payload := data[hmapHeaderSize:]
	sampleCount := int(width) * int(height)
	if len(payload) != sampleCount*4 {
		return nil, fmt.Errorf("%w: expected %d sample bytes, have %d",
			ErrHMAPTruncated, sampleCount*4, len(payload))
	}
	if got := xxhash.Sum64(payload); got != checksum {
		return nil, fmt.Errorf("%w: expected %016x, got %016x", ErrHMAPChecksum, checksum, got)
	}

	heights := make([]float32, sampleCount)
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, heights); err != nil {
		return nil, fmt.Errorf("%w: reading samples", ErrHMAPTruncated)
	}

	hm := &terrain.Heightmap{
		Width:         int(width),
		Height:        int(height),
		Heights:       heights,
		Scale:         math.Vec2{X: scaleX, Y: scaleZ},
		VerticalScale: verticalScale,
	}
	hm.ComputeHeightBounds()
	if err := hm.Validate(); err != nil {
		return nil, err
	}
	return hm, nil
}

// LoadHMAP parses a heightmap container from disk.
func LoadHMAP(path string) (*terrain.Heightmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HMAP file: %w", err)
	}
	return ParseHMAP(data)
}

// EncodeHMAP serializes a heightmap into the HMAP container layout.
func EncodeHMAP(hm *terrain.Heightmap) ([]byte, error) {
	if err := hm.Validate(); err != nil {
		return nil, err
	}

	payload := new(bytes.Buffer)
	payload.Grow(len(hm.Heights) * 4)
	binary.Write(payload, binary.LittleEndian, hm.Heights)

	buf := new(bytes.Buffer)
	buf.Grow(hmapHeaderSize + payload.Len())
	buf.WriteString("HMAP")
	binary.Write(buf, binary.LittleEndian, HMAPVersion)
	binary.Write(buf, binary.LittleEndian, uint32(hm.Width))
	binary.Write(buf, binary.LittleEndian, uint32(hm.Height))
	binary.Write(buf, binary.LittleEndian, hm.Scale.X)
	binary.Write(buf, binary.LittleEndian, hm.Scale.Y)
	binary.Write(buf, binary.LittleEndian, hm.VerticalScale)
	binary.Write(buf, binary.LittleEndian, xxhash.Sum64(payload.Bytes()))
	buf.Write(payload.Bytes())
	return buf.Bytes(), nil
}

// SaveHMAP serializes a heightmap and writes it to disk.
func SaveHMAP(path string, hm *terrain.Heightmap) error {
	data, err := EncodeHMAP(hm)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing HMAP file: %w", err)
	}
	return nil
}
