package dice

import (
	"crypto/cipher"
	"math/big"

	"go.dedis.ch/kyber/v4/suites"
	"go.dedis.ch/kyber/v4/util/random"
)

var suite suites.Suite = suites.MustFind("Ed25519")

// streamSource draws uniform integers from a cipher stream by rejection
// sampling.
type streamSource struct {
	stream cipher.Stream
}

// Intn returns a value in [0, n). random.Int never returns zero, so the draw
// is taken from [1, n] and shifted down.
func (s streamSource) Intn(n int) int {
	return int(random.Int(big.NewInt(int64(n)+1), s.stream).Int64()) - 1
}

// NewKyberSource returns a deterministic source backed by the suite's
// extendable output function keyed with seed.
func NewKyberSource(seed []byte) Source {
	return streamSource{stream: suite.XOF(seed)}
}

// NewSystemSource returns a source backed by the suite's random stream,
// which reads from the operating system.
func NewSystemSource() Source {
	return streamSource{stream: suite.RandomStream()}
}
