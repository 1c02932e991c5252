package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// Column is an ordered sequence of 64 bit unsigned values in some format.
// Meta holds per-block metadata of the format, Data the encoded payload.
// A Column is immutable, slices returned by accessors must not be mutated.
type Column struct {
	format FormatDescriptor
	count  int

	meta []byte
	data []byte
}

// NewColumn takes ownership of meta and data
func NewColumn(format FormatDescriptor, count int, meta []byte, data []byte) (*Column, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errors.Errorf("column count %d negative", count)
	}
	return &Column{format: format, count: count, meta: meta, data: data}, nil
}

func (c *Column) Format() FormatDescriptor {
	return c.format
}

// Len is the number of logical values
func (c *Column) Len() int {
	return c.count
}

func (c *Column) Meta() []byte {
	return c.meta
}

func (c *Column) Data() []byte {
	return c.data
}

// SizeUsedByte is the physical size of the column in memory
func (c *Column) SizeUsedByte() int {
	return len(c.meta) + len(c.data)
}

func (c *Column) String() string {
	return fmt.Sprintf("column %s, %d values, %d bytes", c.format.Name(), c.count, c.SizeUsedByte())
}
