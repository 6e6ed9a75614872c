package scan

import (
	"errors"
	"testing"
	"time"

	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/stretchr/testify/assert"
)

func TestSummary_Counters(t *testing.T) {
	var s Summary
	for _, k := range []Kind{KindGood, KindGood, KindBad, KindMissing, KindIOError, KindNotHelo, KindMisplaced} {
		s.add(k)
	}

	assert.Equal(t, uint64(7), s.Blocks)
	assert.Equal(t, uint64(2), s.Count(KindGood))
	assert.Equal(t, uint64(1), s.Count(KindBad))
	assert.Equal(t, uint64(1), s.Count(KindNotHelo))
	assert.Equal(t, uint64(1), s.Count(KindMissing))
	assert.Equal(t, uint64(1), s.Count(KindMisplaced))
	assert.Equal(t, uint64(1), s.Count(KindIOError))
	assert.Equal(t, uint64(0), s.Count("unknown"))
	assert.Equal(t, uint64(5), s.Failed())
	assert.False(t, s.OK())
}

func TestSummary_OK(t *testing.T) {
	s := Summary{Blocks: 3, Good: 3}
	assert.True(t, s.OK())

	s.Aborted = true
	assert.False(t, s.OK())
}

func TestSummary_Throughput(t *testing.T) {
	s := Summary{Bytes: 10_000_000, Duration: 2 * time.Second}
	assert.Equal(t, 5_000_000.0, s.Throughput())
	assert.Equal(t, "5.0 MB/s", s.Rate())

	assert.Equal(t, 0.0, (&Summary{Bytes: 10}).Throughput())
}

func TestFailure_String(t *testing.T) {
	tests := []struct {
		f    Failure
		want string
	}{
		{Failure{Index: 4, Kind: KindMissing}, "block 4: missing"},
		{Failure{Index: 7, Kind: KindIOError, Err: errors.New("EIO")}, "block 7: io_error: EIO"},
		{Failure{Index: 6, Kind: KindMisplaced, Verification: &helo.Verification{Result: helo.Good, BlockNumber: 5}}, "block 6: misplaced: holds block 5"},
		{Failure{Index: 2, Kind: KindBad, Verification: &helo.Verification{Result: helo.Bad, Errors: 3}}, "block 2: bad: 3 word errors"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.f.String())
	}
}
