package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creeper-desktop/internal/adapter/secondary/permission"
	"creeper-desktop/internal/adapter/secondary/repository"
	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/usecase"
)

func newTestDispatcher() *Dispatcher {
	return New(
		usecase.NewConfigUseCase(repository.NewMemoryRepository()),
		usecase.NewChunkUseCase(),
		usecase.NewPermissionUseCase(permission.NewAlwaysGranted()),
	)
}

func TestDispatcher_Commands(t *testing.T) {
	d := newTestDispatcher()
	assert.Equal(t, []string{
		"get_config",
		"request_mic_permission",
		"set_config",
		"validate_audio_chunk",
	}, d.Commands())
}

func TestDispatcher_ConfigRoundTrip(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	res, err := d.Invoke(ctx, CmdGetConfig, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Config{ChunkDuration: 60}, res)

	res, err = d.Invoke(ctx, CmdSetConfig, []byte(`{"key":"chunk_duration","value":"75"}`))
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = d.Invoke(ctx, CmdGetConfig, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, domain.Config{ChunkDuration: 75}, res)
}

func TestDispatcher_RequestMicPermission(t *testing.T) {
	res, err := newTestDispatcher().Invoke(context.Background(), CmdRequestMicPermission, nil)
	require.NoError(t, err)
	assert.Equal(t, true, res)
}

func TestDispatcher_ValidateAudioChunk(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
		wantErr string
		is      error
	}{
		{
			name:    "valid",
			payload: `{"chunk":{"data":"abc","timestamp":0,"duration":1,"format":"wav"}}`,
		},
		{
			name:    "empty data",
			payload: `{"chunk":{"data":"","timestamp":0,"duration":1,"format":"wav"}}`,
			wantErr: "Audio data is empty",
			is:      domain.ErrEmptyData,
		},
		{
			name:    "zero duration",
			payload: `{"chunk":{"data":"abc","timestamp":0,"duration":0,"format":"wav"}}`,
			wantErr: "Duration must be greater than 0",
			is:      domain.ErrZeroDuration,
		},
		{
			name:    "missing format",
			payload: `{"chunk":{"data":"abc","timestamp":0,"duration":1,"format":""}}`,
			wantErr: "Format must be specified",
			is:      domain.ErrMissingFormat,
		},
		{
			name:    "missing chunk",
			payload: `{}`,
			wantErr: "invalid arguments: missing chunk",
		},
		{
			name:    "negative duration",
			payload: `{"chunk":{"data":"abc","duration":-1,"format":"wav"}}`,
			wantErr: "invalid arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Invoke(ctx, CmdValidateAudioChunk, []byte(tt.payload))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, true, res)
				return
			}
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Contains(t, err.Error(), tt.wantErr)

			var ce *CommandError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, CmdValidateAudioChunk, ce.Command)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestDispatcher_Errors(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	_, err := d.Invoke(ctx, "delete_everything", nil)
	require.Error(t, err)
	assert.Equal(t, "unknown command: delete_everything", err.Error())

	_, err = d.Invoke(ctx, CmdSetConfig, nil)
	require.Error(t, err)
	assert.Equal(t, "invalid arguments: empty payload", err.Error())

	_, err = d.Invoke(ctx, CmdSetConfig, []byte(`{"key":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments")
}

func TestDispatcher_SetConfigMissingFields(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "empty object", payload: `{}`, wantErr: "invalid arguments: missing key"},
		{name: "value only", payload: `{"value":"x"}`, wantErr: "invalid arguments: missing key"},
		{name: "key only", payload: `{"key":"chunk_duration"}`, wantErr: "invalid arguments: missing value"},
		{name: "null key", payload: `{"key":null,"value":"x"}`, wantErr: "invalid arguments: missing key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Invoke(ctx, CmdSetConfig, []byte(tt.payload))
			assert.Nil(t, res)
			require.EqualError(t, err, tt.wantErr)

			var ce *CommandError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, CmdSetConfig, ce.Command)
		})
	}
	assert.Empty(t, d.Entries())

	_, err := d.Invoke(ctx, CmdSetConfig, []byte(`{"key":"","value":""}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"": ""}, d.Entries())
}

func TestDispatcher_TypedMethods(t *testing.T) {
	d := newTestDispatcher()

	require.NoError(t, d.SetConfig("chunk_duration", "15"))
	assert.Equal(t, uint32(15), d.GetConfig().ChunkDuration)

	ok, err := d.ValidateAudioChunk(domain.AudioChunk{Data: "abc", Duration: 1, Format: "wav"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.ValidateAudioChunk(domain.AudioChunk{Data: "abc", Duration: 1})
	assert.False(t, ok)
	assert.EqualError(t, err, "Format must be specified")
}
