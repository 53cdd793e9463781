package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// TracePointRecord is one accepted state as stored: nanoseconds since the run
// started and the tour cost at that moment.
type TracePointRecord struct {
	ElapsedNs int64
	Cost      uint64
}

// RunRecord is everything kept about a finished run.
type RunRecord struct {
	ID           string
	Input        string
	Seed         uint64
	CreatedAtNs  int64
	DurationNs   int64
	Cost         uint64
	Tour         []int32
	HasBest      bool
	BestCost     uint64
	BestTour     []int32
	Eras         int64
	Iterations   int64
	Accepted     int64
	TraceDropped int64
	Trace        []TracePointRecord
}

func Encode(rec RunRecord) ([]byte, error) {
	return binary.Marshal(rec)
}

func Decode(bb []byte) (RunRecord, error) {
	var rec RunRecord
	err := binary.Unmarshal(bb, &rec)
	return rec, err
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}

func CompressRun(rec RunRecord) ([]byte, error) {
	bb, err := Encode(rec)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func LoadRun(bbCompressed []byte) (RunRecord, error) {
	bb, err := Decompress(bbCompressed)
	if err != nil {
		return RunRecord{}, err
	}
	return Decode(bb)
}
