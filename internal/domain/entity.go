package domain

import "strconv"

// ChunkDurationKey is the configuration key backing Config.ChunkDuration.
const ChunkDurationKey = "chunk_duration"

// DefaultChunkDuration is used when chunk_duration is unset or unparsable.
const DefaultChunkDuration uint32 = 60

// Config is the typed view over the raw configuration entries.
type Config struct {
	ChunkDuration uint32 `json:"chunk_duration"`
}

// DefaultConfig returns the configuration of an empty store.
func DefaultConfig() Config {
	return Config{ChunkDuration: DefaultChunkDuration}
}

// AudioChunk describes one recorded segment as sent by the frontend.
// Timestamp is not interpreted; its unit is fixed by the caller.
type AudioChunk struct {
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
	Duration  uint32 `json:"duration"`
	Format    string `json:"format"`
}

// ParseConfig derives the typed view from a key lookup. It never fails.
func ParseConfig(lookup func(key string) (string, bool)) Config {
	cfg := DefaultConfig()
	raw, ok := lookup(ChunkDurationKey)
	if !ok {
		return cfg
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return cfg
	}
	cfg.ChunkDuration = uint32(n)
	return cfg
}
