package domain

// ChunkValidator provides the pure chunk acceptance checks.
// It has no state and no side effects.
type ChunkValidator struct{}

// NewChunkValidator creates a new chunk validator.
func NewChunkValidator() *ChunkValidator {
	return &ChunkValidator{}
}

// Validate applies the checks in order and returns the first failure.
func (v *ChunkValidator) Validate(chunk AudioChunk) error {
	if chunk.Data == "" {
		return ErrEmptyData
	}
	if chunk.Duration == 0 {
		return ErrZeroDuration
	}
	if chunk.Format == "" {
		return ErrMissingFormat
	}
	return nil
}
