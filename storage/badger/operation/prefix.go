package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/lattice-foundation/lattice-go/model/lattice"
)

const (
	codeRewardsParams      = 10 // singleton parameter set with epoch checkpoint
	codeParticipationEvent = 11 // event ID + target contract -> participation event
	codeEpochTally         = 12 // target contract + epoch number -> epoch tally
	codeRewardsPool        = 13 // target contract -> rewards pool
	codeRewardsWatermark   = 14 // target contract -> last epoch paid
)

// separator delimits variable-length key parts so that no two distinct key
// tuples can collide on the same byte string.
const separator = 0x00

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case string:
		return append([]byte(i), separator)
	case lattice.Address:
		return append([]byte(i), separator)
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
