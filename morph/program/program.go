package program

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/patrickhuang888/gomorph/morph/api"
	"github.com/patrickhuang888/gomorph/morph/merrors"
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

// Program is the definition of one query: the processing style, the base
// columns it reads, the operator steps and what it outputs
type Program struct {
	Style  api.ProcessingStyle `yaml:"style"`
	Schema []Table             `yaml:"schema"`
	Steps  []Step              `yaml:"program"`
	Result []string            `yaml:"result"`
	Output Output              `yaml:"output"`
}

type Table struct {
	Name    string      `yaml:"table"`
	Columns []ColumnDef `yaml:"columns"`
}

type ColumnDef struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
	// Unique marks columns sorted without duplicates
	Unique bool `yaml:"unique,omitempty"`
}

// Step is one operator call, In and Out name variables. Base columns are
// variables named table.column.
type Step struct {
	Op    string `yaml:"op"`
	Cmp   string `yaml:"cmp,omitempty"`
	Value uint64 `yaml:"value,omitempty"`
	Calc  string `yaml:"calc,omitempty"`

	In  []string `yaml:"in"`
	Out []string `yaml:"out"`
	// Formats of the outputs, one for all or one per output, uncompr if empty
	Formats []string `yaml:"formats,omitempty"`
}

type Output struct {
	Stdout bool `yaml:"stdout"`
	// Dir receives result columns as column files when set
	Dir         string `yaml:"dir,omitempty"`
	Compression string `yaml:"compression,omitempty"`
}

// Parse decodes a program definition, unknown fields are an error
func Parse(data []byte) (*Program, error) {
	p := &Program{Output: Output{Stdout: true}}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		if err == io.EOF {
			return nil, merrors.NewInvalidProgramError("empty program definition")
		}
		return nil, merrors.NewInvalidProgramError("%v", err)
	}
	return p, nil
}

func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewInvalidProgramError("program file %s does not exist", path)
		}
		return nil, errors.WithStack(err)
	}
	return Parse(data)
}

func (p *Program) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
