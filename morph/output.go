package morph

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/config"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	mio "github.com/patrickhuang888/gomorph/morph/io"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

// writeCSV prints one row per position, one field per result column. Shorter
// columns leave their field empty.
func writeCSV(w io.Writer, results []*api.Column) error {
	values := make([][]uint64, len(results))
	rows := 0
	for i, c := range results {
		vs, err := encoding.Decode(c)
		if err != nil {
			return err
		}
		values[i] = vs
		if len(vs) > rows {
			rows = len(vs)
		}
	}

	cw := csv.NewWriter(w)
	record := make([]string, len(results))
	for r := 0; r < rows; r++ {
		for i, vs := range values {
			if r < len(vs) {
				record[i] = strconv.FormatUint(vs[r], 10)
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return merrors.NewMorphErrorf(merrors.IoError, "writing result row %d: %v", r, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return merrors.NewMorphErrorf(merrors.IoError, "writing results: %v", err)
	}
	logger.Debugf("wrote %d result rows of %d columns", rows, len(results))
	return nil
}

// storeResults writes each result column as column file result.<var>.<format>.bin
func storeResults(dir string, names []string, results []*api.Column, opts config.WriterOptions) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return merrors.NewMorphErrorf(merrors.IoError, "creating output directory %s: %v", dir, err)
	}
	for i, c := range results {
		path := filepath.Join(dir, mio.ColumnFileName("result", names[i], c.Format()))
		if err := mio.Store(path, c, opts); err != nil {
			return err
		}
	}
	return nil
}
