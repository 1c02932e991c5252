package vector

import (
	"io"
	"math/bits"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/gomorph/morph/api"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

func SetFormatter(formatter log.Formatter) {
	logger.SetFormatter(formatter)
}

func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

// MaxLanes is the lane count of the widest style
const MaxLanes = 8

// Register holds one vector, lanes beyond the style's count are zero
type Register [MaxLanes]uint64

// Mask has bit i set for lane i
type Mask uint8

func (m Mask) Has(lane int) bool {
	return m&(1<<uint(lane)) != 0
}

func (m Mask) Count() int {
	return bits.OnesCount8(uint8(m))
}

type CmpOp uint8

const (
	Eq CmpOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
	cmpOpsCount
)

var cmpOpNames = [cmpOpsCount]string{Eq: "eq", Ne: "ne", Lt: "lt", Le: "le", Gt: "gt", Ge: "ge"}

func (op CmpOp) String() string {
	if op >= cmpOpsCount {
		return "unknown"
	}
	return cmpOpNames[op]
}

func ParseCmpOp(s string) (CmpOp, error) {
	for op, n := range cmpOpNames {
		if n == s {
			return CmpOp(op), nil
		}
	}
	return 0, errors.Errorf("comparison %q unknown", s)
}

// Holds reports a op b for single values
func (op CmpOp) Holds(a, b uint64) bool {
	switch op {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

// Primitives is the lane-width specific primitive set operators compute with.
// Load and Store touch exactly Lanes values.
type Primitives interface {
	Style() api.ProcessingStyle
	Lanes() int

	Load(src []uint64) Register
	Store(dst []uint64, r Register)
	Set1(v uint64) Register

	Compare(op CmpOp, a, b Register) Mask
	// arithmetic returns the mask of lanes that overflowed
	Add(a, b Register) (Register, Mask)
	Sub(a, b Register) (Register, Mask)
	Mul(a, b Register) (Register, Mask)
	// HAdd sums all lanes, overflow reports the sum does not fit 64 bits
	HAdd(r Register) (sum uint64, overflow bool)
}

// lanes implements Primitives as a fixed count of lane operations, the
// compiler unrolls the loops for the constant widths
type lanes struct {
	style api.ProcessingStyle
	n     int
	all   Mask
}

func newLanes(ps api.ProcessingStyle) *lanes {
	n := ps.VectorElementCount()
	return &lanes{style: ps, n: n, all: Mask(uint16(1)<<uint(n) - 1)}
}

func (l *lanes) Style() api.ProcessingStyle {
	return l.style
}

func (l *lanes) Lanes() int {
	return l.n
}

func (l *lanes) Load(src []uint64) (r Register) {
	copy(r[:l.n], src[:l.n])
	return
}

func (l *lanes) Store(dst []uint64, r Register) {
	copy(dst[:l.n], r[:l.n])
}

func (l *lanes) Set1(v uint64) (r Register) {
	for i := 0; i < l.n; i++ {
		r[i] = v
	}
	return
}

func (l *lanes) Compare(op CmpOp, a, b Register) (m Mask) {
	for i := 0; i < l.n; i++ {
		if op.Holds(a[i], b[i]) {
			m |= 1 << uint(i)
		}
	}
	return m & l.all
}

func (l *lanes) Add(a, b Register) (r Register, overflow Mask) {
	for i := 0; i < l.n; i++ {
		var carry uint64
		r[i], carry = bits.Add64(a[i], b[i], 0)
		if carry != 0 {
			overflow |= 1 << uint(i)
		}
	}
	return
}

func (l *lanes) Sub(a, b Register) (r Register, overflow Mask) {
	for i := 0; i < l.n; i++ {
		var borrow uint64
		r[i], borrow = bits.Sub64(a[i], b[i], 0)
		if borrow != 0 {
			overflow |= 1 << uint(i)
		}
	}
	return
}

func (l *lanes) Mul(a, b Register) (r Register, overflow Mask) {
	for i := 0; i < l.n; i++ {
		var hi uint64
		hi, r[i] = bits.Mul64(a[i], b[i])
		if hi != 0 {
			overflow |= 1 << uint(i)
		}
	}
	return
}

func (l *lanes) HAdd(r Register) (sum uint64, overflow bool) {
	for i := 0; i < l.n; i++ {
		var carry uint64
		sum, carry = bits.Add64(sum, r[i], 0)
		overflow = overflow || carry != 0
	}
	return
}

var scalar = newLanes(api.StyleScalar)

// Scalar is the width 1 primitive set, every style's remainder runs on it
func Scalar() Primitives {
	return scalar
}
