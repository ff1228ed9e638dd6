package learning

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pthm-cable/waggle/components"
)

// ErrUnknownHash is returned for a hash function name not in the registry.
var ErrUnknownHash = errors.New("unknown hash function")

// HashFunc maps a sensor reading to a state index.
type HashFunc func(r components.Reading) int

// Hash is a named hash function and the number of states it produces.
type Hash struct {
	Name      string
	Func      HashFunc
	NumStates int
}

var hashes = map[string]Hash{
	"Original":  {Name: "Original", Func: OriginalHash, NumStates: 1 << 8},
	"PuckMid4":  {Name: "PuckMid4", Func: PuckMid4, NumStates: 1 << 4},
	"PuckMid16": {Name: "PuckMid16", Func: PuckMid16, NumStates: 1 << 6},
}

// LookupHash returns the hash registered under name.
func LookupHash(name string) (Hash, error) {
	h, ok := hashes[name]
	if !ok {
		return Hash{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownHash, name, strings.Join(HashNames(), ", "))
	}
	return h, nil
}

// HashNames lists the registered hash function names.
func HashNames() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func bit(on bool, n uint) int {
	if on {
		return 1 << n
	}
	return 0
}

// bucket quantizes v in [0,1] into n buckets.
func bucket(v float64, n int) int {
	b := int(math.Floor(v * float64(n)))
	return min(max(b, 0), n-1)
}

func puckBits(r components.Reading) int {
	return bit(r.LeftPucks != 0, 0) + bit(r.RightPucks != 0, 1)
}

// OriginalHash encodes puck presence on each side, whether each side is
// at least as high as the middle, and the middle field value in 16 steps.
func OriginalHash(r components.Reading) int {
	return puckBits(r) +
		bit(!(r.LeftNest < r.MidNest), 2) +
		bit(!(r.RightNest < r.MidNest), 3) +
		bucket(r.MidNest, 16)<<4
}

// PuckMid4 encodes puck presence and the middle field value in 4 steps.
func PuckMid4(r components.Reading) int {
	return puckBits(r) + bucket(r.MidNest, 4)<<2
}

// PuckMid16 encodes puck presence and the middle field value in 16 steps.
func PuckMid16(r components.Reading) int {
	return puckBits(r) + bucket(r.MidNest, 16)<<2
}
