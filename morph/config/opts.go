package config

import (
	"github.com/patrickhuang888/gomorph/morph/compress"
)

const (
	DefaultChunkSize = 256 * 1024
)

type ReaderOptions struct {
	// VerifyChecksum checks crc32 of meta and payload on load
	VerifyChecksum bool
}

func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{VerifyChecksum: true}
}

type WriterOptions struct {
	CompressionKind compress.Kind
	// ChunkSize is the uncompressed size of one zlib chunk
	ChunkSize int
	// Sync fsyncs the temp file before it is renamed into place
	Sync bool
}

func DefaultWriterOptions() WriterOptions {
	return WriterOptions{CompressionKind: compress.None, ChunkSize: DefaultChunkSize, Sync: true}
}
