package index

import (
	"encoding/binary"
	"time"
)

func idKey(id int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

func idFromKey(k []byte) (int64, bool) {
	if len(k) != 8 {
		return 0, false
	}
	return int64(binary.BigEndian.Uint64(k)), true
}

// positionKey sorts in fetch order under bbolt's byte ordering.
func positionKey(pos int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(pos))
	return buf
}

func encodeTime(t time.Time) []byte {
	b, _ := t.UTC().MarshalBinary()
	return b
}

func decodeTime(b []byte) time.Time {
	var t time.Time
	if err := t.UnmarshalBinary(b); err != nil {
		return time.Time{}
	}
	return t
}
