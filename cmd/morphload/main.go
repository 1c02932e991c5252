package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/gomorph/morph"
	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/compress"
	"github.com/patrickhuang888/gomorph/morph/config"
	"github.com/patrickhuang888/gomorph/morph/encoding"
	mio "github.com/patrickhuang888/gomorph/morph/io"
	"github.com/patrickhuang888/gomorph/morph/merrors"
)

type arguments struct {
	Table       string           `help:"Table the column belongs to" required:""`
	Column      string           `help:"Name of the column" required:""`
	Format      string           `help:"Format of the column file" default:"uncompr"`
	Style       string           `help:"Processing style the format is built for" default:"scalar"`
	Compression string           `help:"Compression of the payload" enum:"none,zlib,snappy,zstd" default:"none"`
	Input       string           `help:"Text file of whitespace separated unsigned integers, '-' for stdin" short:"i" default:"-"`
	DataDir     string           `arg:"" help:"Directory the column file is written to" type:"path"`
	Log         config.LogConfig `help:"Configuration for the logger" embed:"" prefix:"log-"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := arguments{}
	parser, err := kong.New(&cfg,
		kong.Name("morphload"),
		kong.Description("Writes a column file from a text file of integers."),
		kong.Writers(stdout, stderr))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return merrors.ExitInternal
	}
	if _, err = parser.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return merrors.ExitUsage
	}
	level, formatter, out, err := cfg.Log.Resolve()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return merrors.ExitUsage
	}
	morph.SetLogLevel(level)
	morph.SetLogFormatter(formatter)
	morph.SetLogOutput(out)

	path, err := load(&cfg, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return merrors.ExitCode(err)
	}
	fmt.Fprintln(stdout, path)
	return merrors.ExitOK
}

func load(cfg *arguments, stdin io.Reader) (string, error) {
	ps, err := api.ParseStyle(cfg.Style)
	if err != nil {
		return "", merrors.NewUsageError(err.Error())
	}
	fd, err := api.ParseFormat(cfg.Format, ps)
	if err != nil {
		return "", merrors.NewUsageError(err.Error())
	}
	kind, err := compress.ParseKind(cfg.Compression)
	if err != nil {
		return "", merrors.NewUsageError(err.Error())
	}

	in := stdin
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return "", merrors.NewMorphErrorf(merrors.IoError, "opening %s: %v", cfg.Input, err)
		}
		defer f.Close()
		in = f
	}
	values, err := readValues(in)
	if err != nil {
		return "", err
	}

	col, err := encoding.Encode(fd, values)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return "", merrors.NewMorphErrorf(merrors.IoError, "creating %s: %v", cfg.DataDir, err)
	}
	opts := config.DefaultWriterOptions()
	opts.CompressionKind = kind
	path := filepath.Join(cfg.DataDir, mio.ColumnFileName(cfg.Table, cfg.Column, fd))
	if err = mio.Store(path, col, opts); err != nil {
		return "", err
	}
	return path, nil
}

// readValues reads whitespace separated unsigned decimal integers
func readValues(r io.Reader) ([]uint64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var values []uint64
	for sc.Scan() {
		v, err := strconv.ParseUint(sc.Text(), 10, 64)
		if err != nil {
			return nil, merrors.NewMorphErrorf(merrors.InvalidInput, "value %d: %v", len(values), err)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if values == nil {
		values = []uint64{}
	}
	return values, nil
}
