package usecase

import (
	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/logging"
)

// ChunkUseCase gates audio chunk metadata before downstream processing.
type ChunkUseCase interface {
	ValidateChunk(chunk domain.AudioChunk) error
}

type chunkInteractor struct {
	validator *domain.ChunkValidator
}

// NewChunkUseCase creates the chunk validation use case.
func NewChunkUseCase() ChunkUseCase {
	return &chunkInteractor{validator: domain.NewChunkValidator()}
}

// ValidateChunk returns nil when the chunk is acceptable, or a
// *domain.ValidationError naming the first failed check.
func (c *chunkInteractor) ValidateChunk(chunk domain.AudioChunk) error {
	if err := c.validator.Validate(chunk); err != nil {
		logging.Debugf("chunk rejected: %v", err)
		return err
	}
	logging.Tracef("chunk accepted: format=%s duration=%ds", chunk.Format, chunk.Duration)
	return nil
}
