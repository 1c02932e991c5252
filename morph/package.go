package morph

import (
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/gomorph/morph/compress"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	mio "github.com/patrickhuang888/gomorph/morph/io"
	"github.com/patrickhuang888/gomorph/morph/operator"
	"github.com/patrickhuang888/gomorph/morph/program"
	"github.com/patrickhuang888/gomorph/morph/vector"
)

var logger = log.New()

// SetLogLevel sets the level of this package's logger and of all morph packages
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
	compress.SetLogLevel(level)
	encoding.SetLogLevel(level)
	mio.SetLogLevel(level)
	operator.SetLogLevel(level)
	program.SetLogLevel(level)
	vector.SetLogLevel(level)
}

func SetLogFormatter(formatter log.Formatter) {
	logger.SetFormatter(formatter)
	compress.SetFormatter(formatter)
	encoding.SetFormatter(formatter)
	mio.SetFormatter(formatter)
	operator.SetFormatter(formatter)
	program.SetFormatter(formatter)
	vector.SetFormatter(formatter)
}

func SetLogOutput(out io.Writer) {
	logger.SetOutput(out)
	compress.SetOutput(out)
	encoding.SetOutput(out)
	mio.SetOutput(out)
	operator.SetOutput(out)
	program.SetOutput(out)
	vector.SetOutput(out)
}
