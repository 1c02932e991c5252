package vector

import (
	"math"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

func init() {
	SetLogLevel(log.TraceLevel)
}

func TestLoadStoreCompare(t *testing.T) {
	src := []uint64{3, 1, 4, 1, 5, 9, 2, 6}
	for _, ps := range api.AllStyles() {
		p := Unchecked(ps)
		assert.Equal(t, ps, p.Style())
		n := p.Lanes()
		r := p.Load(src)
		for i := n; i < MaxLanes; i++ {
			assert.Zero(t, r[i])
		}

		m := p.Compare(Gt, r, p.Set1(2))
		for i := 0; i < n; i++ {
			assert.Equal(t, src[i] > 2, m.Has(i), "%s lane %d", ps, i)
		}
		assert.False(t, m.Has(n))

		dst := make([]uint64, MaxLanes)
		p.Store(dst, r)
		assert.Equal(t, src[:n], dst[:n])
		assert.Equal(t, make([]uint64, MaxLanes-n), dst[n:])
	}
}

func TestArithmeticOverflow(t *testing.T) {
	p := Unchecked(api.StyleAVX2)
	a := p.Load([]uint64{math.MaxUint64, 1, 2, 1 << 33})
	b := p.Load([]uint64{1, 1, 3, 1 << 31})

	sum, of := p.Add(a, b)
	assert.Equal(t, Mask(1), of)
	assert.Equal(t, uint64(2), sum[1])

	_, of = p.Sub(a, b)
	assert.Equal(t, Mask(1<<2), of)

	prod, of := p.Mul(a, b)
	assert.Equal(t, Mask(1|1<<3), of)
	assert.Equal(t, uint64(6), prod[2])
	assert.Equal(t, 2, of.Count())

	total, overflow := p.HAdd(p.Load([]uint64{1, 2, 3, 4}))
	assert.False(t, overflow)
	assert.Equal(t, uint64(10), total)
	_, overflow = p.HAdd(p.Set1(math.MaxUint64 / 2))
	assert.True(t, overflow)
}

func TestCmpOps(t *testing.T) {
	for _, s := range []string{"eq", "ne", "lt", "le", "gt", "ge"} {
		op, err := ParseCmpOp(s)
		require.NoError(t, err)
		assert.Equal(t, s, op.String())
	}
	_, err := ParseCmpOp("like")
	assert.Error(t, err)
	assert.True(t, Le.Holds(2, 2))
	assert.False(t, Lt.Holds(2, 2))
	assert.True(t, Ne.Holds(1, 2))
}

func TestFor(t *testing.T) {
	p, err := For(api.StyleScalar)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Lanes())
	assert.Equal(t, Scalar(), p)

	for _, ps := range api.AllStyles() {
		p, err := For(ps)
		if Available(ps) {
			require.NoError(t, err)
			assert.Equal(t, ps.VectorElementCount(), p.Lanes())
		} else {
			assert.True(t, merrors.Is(err, merrors.StyleUnavailable), ps.String())
		}
	}

	_, err = For(api.ProcessingStyle(42))
	assert.Error(t, err)
}
