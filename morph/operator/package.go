package operator

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	"github.com/patrickhuang888/gomorph/morph/vector"
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

// Env is what every operator of one program shares, the processing style is
// fixed for the program
type Env struct {
	Prims vector.Primitives
}

func NewEnv(prims vector.Primitives) *Env {
	return &Env{Prims: prims}
}

// vectorized runs body over full vectors of n values from offset 0 and tail
// over the remaining values with the scalar primitives
func (e *Env) vectorized(n int, body func(p vector.Primitives, i int) error) error {
	p := e.Prims
	lanes := p.Lanes()
	end := n - n%lanes
	for i := 0; i < end; i += lanes {
		if err := body(p, i); err != nil {
			return err
		}
	}
	scalar := vector.Scalar()
	for i := end; i < n; i++ {
		if err := body(scalar, i); err != nil {
			return err
		}
	}
	return nil
}

func decode(col *api.Column) ([]uint64, error) {
	vs, err := encoding.Decode(col)
	if err != nil {
		return nil, errors.WithMessagef(err, "decoding operator input")
	}
	return vs, nil
}

func encode(fd api.FormatDescriptor, values []uint64) (*api.Column, error) {
	return encoding.Encode(fd, values)
}
