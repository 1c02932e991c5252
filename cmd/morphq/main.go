package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/patrickhuang888/gomorph/morph"
	"github.com/patrickhuang888/gomorph/morph/config"
	"github.com/patrickhuang888/gomorph/morph/merrors"
	"github.com/patrickhuang888/gomorph/morph/program"
)

const usageMessage = "This query program expects exactly one argument: the relative or absolute path to the directory containing the column files."

//go:embed program.yaml
var builtinProgram []byte

type arguments struct {
	DataDir  string           `arg:"" help:"Directory containing the column files" type:"path"`
	Program  string           `help:"Program definition to run instead of the built in one" type:"existingfile"`
	NoVerify bool             `help:"Skip the checksum verification of column files"`
	Log      config.LogConfig `help:"Configuration for the logger" embed:"" prefix:"log-"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type exit int

func run(args []string, stdout, stderr io.Writer) (code int) {
	cfg := arguments{}
	parser, err := kong.New(&cfg,
		kong.Name("morphq"),
		kong.Description("Runs one query over a directory of column files."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exit(c)) }))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return merrors.ExitInternal
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exit)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()
	if _, err = parser.Parse(args); err != nil {
		fmt.Fprintln(stderr, usageMessage)
		return merrors.ExitUsage
	}

	closeLog, err := configureLogging(&cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return merrors.ExitUsage
	}
	defer closeLog()

	if err = query(&cfg, stdout, stderr); err != nil {
		code = merrors.ExitCode(err)
		if code == merrors.ExitInternal {
			// not a user facing error, print where it came from
			fmt.Fprintf(stderr, "%+v\n", merrors.MaybeAddStack(err))
		} else {
			fmt.Fprintf(stderr, "%v\n", err)
		}
		return code
	}
	return merrors.ExitOK
}

func configureLogging(cfg *config.LogConfig) (func(), error) {
	level, formatter, out, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	morph.SetLogLevel(level)
	morph.SetLogFormatter(formatter)
	morph.SetLogOutput(out)
	return func() {
		if c, ok := out.(io.Closer); ok && out != os.Stderr {
			c.Close()
		}
	}, nil
}

func query(cfg *arguments, stdout, stderr io.Writer) error {
	var p *program.Program
	var err error
	if cfg.Program != "" {
		p, err = program.Load(cfg.Program)
	} else {
		p, err = program.Parse(builtinProgram)
	}
	if err != nil {
		return err
	}
	plan, err := program.Compile(p)
	if err != nil {
		return err
	}

	ropts := config.DefaultReaderOptions()
	ropts.VerifyChecksum = !cfg.NoVerify
	pipeline, err := morph.NewPipeline(plan, morph.Options{
		DataDir: cfg.DataDir,
		Reader:  ropts,
		Writer:  config.DefaultWriterOptions(),
		Stdout:  stdout,
		Diag:    stderr,
	})
	if err != nil {
		return err
	}
	return pipeline.Run()
}
