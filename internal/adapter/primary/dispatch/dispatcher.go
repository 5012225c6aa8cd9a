// Package dispatch routes named frontend commands to the use cases and
// turns every failure into a human-readable message.
package dispatch

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/logging"
	"creeper-desktop/internal/usecase"
)

// Command names understood by the dispatcher.
const (
	CmdGetConfig            = "get_config"
	CmdSetConfig            = "set_config"
	CmdRequestMicPermission = "request_mic_permission"
	CmdValidateAudioChunk   = "validate_audio_chunk"
)

// CommandError is returned for any rejected invocation. Message is what
// the frontend shows.
type CommandError struct {
	Command string
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// SetConfigArgs is the payload of set_config. Both fields must be present;
// an empty string is a valid key or value.
type SetConfigArgs struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// Validate reports a missing key or value.
func (a SetConfigArgs) Validate() error {
	if a.Key == nil {
		return fmt.Errorf("invalid arguments: missing key")
	}
	if a.Value == nil {
		return fmt.Errorf("invalid arguments: missing value")
	}
	return nil
}

// ValidateChunkArgs is the payload of validate_audio_chunk.
type ValidateChunkArgs struct {
	Chunk *domain.AudioChunk `json:"chunk"`
}

type handlerFunc func(ctx context.Context, payload []byte) (any, error)

// Dispatcher is a primary adapter exposing the use cases as named commands.
type Dispatcher struct {
	config     usecase.ConfigUseCase
	chunks     usecase.ChunkUseCase
	permission usecase.PermissionUseCase

	handlers map[string]handlerFunc
}

// New creates a dispatcher over the given use cases.
func New(config usecase.ConfigUseCase, chunks usecase.ChunkUseCase, permission usecase.PermissionUseCase) *Dispatcher {
	d := &Dispatcher{
		config:     config,
		chunks:     chunks,
		permission: permission,
	}
	d.handlers = map[string]handlerFunc{
		CmdGetConfig:            d.getConfig,
		CmdSetConfig:            d.setConfig,
		CmdRequestMicPermission: d.requestMicPermission,
		CmdValidateAudioChunk:   d.validateAudioChunk,
	}
	return d
}

// Commands returns the registered command names, sorted.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs command with its JSON payload. An empty payload is allowed
// for commands without arguments.
func (d *Dispatcher) Invoke(ctx context.Context, command string, payload []byte) (any, error) {
	id := requestID()
	h, ok := d.handlers[command]
	if !ok {
		logging.Warnf("invoke %s: unknown command %q", id, command)
		return nil, &CommandError{Command: command, Message: fmt.Sprintf("unknown command: %s", command)}
	}

	start := time.Now()
	result, err := h(ctx, payload)
	if err != nil {
		logging.Debugf("invoke %s %s failed in %s: %v", id, command, time.Since(start), err)
		return nil, toCommandError(command, err)
	}
	logging.Debugf("invoke %s %s ok in %s", id, command, time.Since(start))
	return result, nil
}

// GetConfig is the typed form of the get_config command.
func (d *Dispatcher) GetConfig() domain.Config {
	return d.config.GetConfig()
}

// SetConfig is the typed form of the set_config command.
func (d *Dispatcher) SetConfig(key, value string) error {
	if err := d.config.SetConfig(key, value); err != nil {
		return toCommandError(CmdSetConfig, err)
	}
	return nil
}

// Entries returns the raw configuration overrides.
func (d *Dispatcher) Entries() map[string]string {
	return d.config.Entries()
}

// RequestMicPermission is the typed form of the request_mic_permission command.
func (d *Dispatcher) RequestMicPermission(ctx context.Context) (bool, error) {
	granted, err := d.permission.RequestMicPermission(ctx)
	if err != nil {
		return false, toCommandError(CmdRequestMicPermission, err)
	}
	return granted, nil
}

// ValidateAudioChunk is the typed form of the validate_audio_chunk command.
func (d *Dispatcher) ValidateAudioChunk(chunk domain.AudioChunk) (bool, error) {
	if err := d.chunks.ValidateChunk(chunk); err != nil {
		return false, toCommandError(CmdValidateAudioChunk, err)
	}
	return true, nil
}

func (d *Dispatcher) getConfig(ctx context.Context, payload []byte) (any, error) {
	return d.GetConfig(), nil
}

func (d *Dispatcher) setConfig(ctx context.Context, payload []byte) (any, error) {
	var args SetConfigArgs
	if err := decode(payload, &args); err != nil {
		return nil, err
	}
	if err := args.Validate(); err != nil {
		return nil, err
	}
	if err := d.SetConfig(*args.Key, *args.Value); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *Dispatcher) requestMicPermission(ctx context.Context, payload []byte) (any, error) {
	return d.RequestMicPermission(ctx)
}

func (d *Dispatcher) validateAudioChunk(ctx context.Context, payload []byte) (any, error) {
	var args ValidateChunkArgs
	if err := decode(payload, &args); err != nil {
		return nil, err
	}
	if args.Chunk == nil {
		return nil, fmt.Errorf("invalid arguments: missing chunk")
	}
	return d.ValidateAudioChunk(*args.Chunk)
}

func decode(payload []byte, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("invalid arguments: empty payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func toCommandError(command string, err error) *CommandError {
	if ce, ok := err.(*CommandError); ok {
		return ce
	}
	return &CommandError{Command: command, Message: err.Error(), Err: err}
}

func requestID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "-"
	}
	return id.String()
}
