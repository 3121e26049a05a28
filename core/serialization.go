package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for types persisted by the local index.
// Field order is part of the storage format; append new fields at the end.
var (
	IDMUS          = idMUS{}
	ChunkRecordMUS = chunkRecordMUS{}
)

// Embedding vectors are dense, so raw encoding beats varint here.
var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type chunkRecordMUS struct{}

func (chunkRecordMUS) Marshal(r ChunkRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Text, bs[n:])
	n += ord.String.Marshal(r.Source, bs[n:])
	n += ord.String.Marshal(r.Channel, bs[n:])
	n += ord.String.Marshal(r.Category, bs[n:])
	n += varint.Int64.Marshal(r.Date.UnixMicro(), bs[n:])
	n += vectorMUS.Marshal(r.Vector, bs[n:])
	n += varint.Int64.Marshal(r.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (chunkRecordMUS) Unmarshal(bs []byte) (r ChunkRecord, n int, err error) {
	var n1 int
	r.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return r, n, err
	}
	r.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Channel, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.Date = time.UnixMicro(micros).UTC()
	r.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return r, n, err
	}
	r.InsertedAt = time.UnixMicro(micros).UTC()
	return r, n, nil
}

func (chunkRecordMUS) Size(r ChunkRecord) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(r.Text)
	size += ord.String.Size(r.Source)
	size += ord.String.Size(r.Channel)
	size += ord.String.Size(r.Category)
	size += varint.Int64.Size(r.Date.UnixMicro())
	size += vectorMUS.Size(r.Vector)
	size += varint.Int64.Size(r.InsertedAt.UnixMicro())
	return size
}

func (s chunkRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
