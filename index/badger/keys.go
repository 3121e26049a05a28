package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/reperit/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix     = "chkrec"
	chunkRecordDatePrefix = "chkrecd"
)

// makeChunkRecordKey generates a key for a chunk record by ID.
func makeChunkRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeChunkDateKey(date time.Time, id core.ID) []byte {
	prefix := chunkRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(date.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
