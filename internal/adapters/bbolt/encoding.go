// Binary encoding for tag index blobs.
//
// The per-file tag lists dominate the index size, so they get a compact
// binary layout instead of JSON. The small file table is gob-encoded.
//
// Binary tag list format (little-endian):
//
//	fileCount: uint32
//	per file:
//	  fileID:   uint32
//	  tagCount: uint32
//	  tags:     [tagCount]× tag record
//
// A tag record is the line number (uint32) followed by the name, kind,
// kind letter, scope, scope kind, inherits, mixin and language strings,
// each prefixed with a uint16 length.
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"sort"

	"github.com/puretechnyc/ctags/internal/ports"
)

// minTagRecordSize is the encoded size of a tag record with all strings
// empty: the line number plus eight length prefixes.
const minTagRecordSize = 4 + 8*2

// tagStrings returns the string fields of t in encoding order.
func tagStrings(t *ports.TagRecord) [8]string {
	return [8]string{t.Name, t.Kind, t.KindChar, t.Scope, t.ScopeKind, t.Inherits, t.Mixins, t.Language}
}

// tagSize is the encoded byte size of a single tag record.
func tagSize(t *ports.TagRecord) int {
	size := 4
	for _, s := range tagStrings(t) {
		size += 2 + len(s)
	}
	return size
}

// encodeTagLists encodes the per-file tag lists to compact binary format.
// File IDs are sorted for deterministic output. A single buffer is
// pre-allocated to avoid repeated growth.
func encodeTagLists(tags map[uint32][]*ports.TagRecord) ([]byte, error) {
	// Pre-calculate total size for single allocation.
	// Header: 4 bytes (fileCount)
	// Per file: 4 (fileID) + 4 (tagCount) + the encoded tags
	totalSize := 4
	for _, recs := range tags {
		totalSize += 8
		for _, t := range recs {
			totalSize += tagSize(t)
		}
	}

	buf := make([]byte, totalSize)
	offset := 0

	// Sort file IDs for deterministic output.
	ids := make([]uint32, 0, len(tags))
	for id := range tags {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// File count header.
	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(ids)))
	offset += 4

	for _, id := range ids {
		recs := tags[id]

		binary.LittleEndian.PutUint32(buf[offset:], id)
		offset += 4
		binary.LittleEndian.PutUint32(buf[offset:], uint32(len(recs)))
		offset += 4

		for _, t := range recs {
			binary.LittleEndian.PutUint32(buf[offset:], uint32(t.Line))
			offset += 4
			for _, s := range tagStrings(t) {
				if len(s) > 65535 {
					return nil, fmt.Errorf("tag field too long: %d bytes", len(s))
				}
				binary.LittleEndian.PutUint16(buf[offset:], uint16(len(s)))
				offset += 2
				copy(buf[offset:], s)
				offset += len(s)
			}
		}
	}

	return buf, nil
}

// decodeTagLists decodes binary tag lists back to a per-file map.
// Every read is bounds-checked to avoid panics on corrupt data.
func decodeTagLists(data []byte) (map[uint32][]*ports.TagRecord, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("tag list blob too short: %d bytes", len(data))
	}

	offset := 0
	fileCount := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	if int(fileCount) > (len(data)-offset)/8 {
		return nil, fmt.Errorf("file count %d exceeds blob size %d", fileCount, len(data))
	}

	tags := make(map[uint32][]*ports.TagRecord, fileCount)

	for i := uint32(0); i < fileCount; i++ {
		if offset+8 > len(data) {
			return nil, fmt.Errorf("truncated at file %d header (offset %d)", i, offset)
		}
		fileID := binary.LittleEndian.Uint32(data[offset:])
		offset += 4
		tagCount := binary.LittleEndian.Uint32(data[offset:])
		offset += 4

		if int(tagCount) > (len(data)-offset)/minTagRecordSize {
			return nil, fmt.Errorf("tag count %d for file %d exceeds remaining data (offset %d)", tagCount, fileID, offset)
		}

		recs := make([]*ports.TagRecord, 0, tagCount)
		for j := uint32(0); j < tagCount; j++ {
			if offset+4 > len(data) {
				return nil, fmt.Errorf("truncated at file %d tag %d line (offset %d)", i, j, offset)
			}
			t := &ports.TagRecord{Line: int(binary.LittleEndian.Uint32(data[offset:]))}
			offset += 4

			fields := [8]*string{&t.Name, &t.Kind, &t.KindChar, &t.Scope, &t.ScopeKind, &t.Inherits, &t.Mixins, &t.Language}
			for _, f := range fields {
				if offset+2 > len(data) {
					return nil, fmt.Errorf("truncated at file %d tag %d field length (offset %d)", i, j, offset)
				}
				strLen := int(binary.LittleEndian.Uint16(data[offset:]))
				offset += 2
				if offset+strLen > len(data) {
					return nil, fmt.Errorf("truncated at file %d tag %d field (offset %d, need %d)", i, j, offset, strLen)
				}
				*f = string(data[offset : offset+strLen])
				offset += strLen
			}
			recs = append(recs, t)
		}
		tags[fileID] = recs
	}

	return tags, nil
}

// encodeGob encodes a value using gob. Used for the file table, which is
// small and has no hot decode path.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
