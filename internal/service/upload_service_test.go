package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/voxera-dev/voxera-api/internal/models"
)

type stubStorage struct {
	err   error
	names []string
}

func (s *stubStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	s.names = append(s.names, name)
	return "https://files.test/" + name, nil
}

type memoryRecordingRepo struct {
	recordings []models.Recording
}

func (m *memoryRecordingRepo) Create(_ context.Context, recording *models.Recording) error {
	recording.ID = uint(len(m.recordings) + 1)
	m.recordings = append(m.recordings, *recording)
	return nil
}

type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(_ context.Context, _ string, _ []byte) (string, error) {
	return s.transcript, s.err
}

// wavPayload builds a minimal RIFF/WAVE header so content sniffing sees audio.
func wavPayload(extra int) []byte {
	header := []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")
	return append(header, make([]byte, extra)...)
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(64<<20))

	return req.MultipartForm.File["file"][0]
}

func TestUploadAudioStoresRecording(t *testing.T) {
	storage := &stubStorage{}
	recordings := &memoryRecordingRepo{}
	svc := NewUploadService(storage, recordings, nil, 25, zerolog.Nop())

	result, err := svc.UploadAudio(context.Background(), fileHeader(t, "answer.wav", wavPayload(128)))
	require.NoError(t, err)
	require.Equal(t, "https://files.test/answer.wav", result.AudioURL)
	require.NotEmpty(t, result.SHA256)
	require.Equal(t, int64(len(wavPayload(128))), result.SizeBytes)
	require.Empty(t, result.Transcript)

	require.Len(t, recordings.recordings, 1)
	require.Equal(t, "answer.wav", recordings.recordings[0].FileName)
	require.Equal(t, result.SHA256, recordings.recordings[0].SHA256)
}

func TestUploadAudioRejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(&stubStorage{}, &memoryRecordingRepo{}, nil, 1, zerolog.Nop())

	oversized := wavPayload(2 * 1024 * 1024)
	_, err := svc.UploadAudio(context.Background(), fileHeader(t, "big.wav", oversized))
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestUploadAudioRejectsNonAudioContent(t *testing.T) {
	storage := &stubStorage{}
	svc := NewUploadService(storage, &memoryRecordingRepo{}, nil, 25, zerolog.Nop())

	_, err := svc.UploadAudio(context.Background(), fileHeader(t, "notes.txt", []byte("just some plain text, not audio")))
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
	require.Empty(t, storage.names, "rejected uploads must not reach storage")
}

func TestUploadAudioRejectsWhenStorageNotConfigured(t *testing.T) {
	recordings := &memoryRecordingRepo{}
	svc := NewUploadService(nil, recordings, nil, 25, zerolog.Nop())

	require.NotPanics(t, func() {
		_, err := svc.UploadAudio(context.Background(), fileHeader(t, "answer.wav", wavPayload(64)))
		require.ErrorIs(t, err, ErrStorageUnavailable)
	})
	require.Empty(t, recordings.recordings)
}

func TestUploadAudioPropagatesStorageFailure(t *testing.T) {
	storage := &stubStorage{err: errors.New("bucket unavailable")}
	recordings := &memoryRecordingRepo{}
	svc := NewUploadService(storage, recordings, nil, 25, zerolog.Nop())

	_, err := svc.UploadAudio(context.Background(), fileHeader(t, "answer.wav", wavPayload(64)))
	require.Error(t, err)
	require.Empty(t, recordings.recordings)
}

func TestUploadAudioTranscribesWhenConfigured(t *testing.T) {
	svc := NewUploadService(&stubStorage{}, &memoryRecordingRepo{}, &stubTranscriber{transcript: "hello world"}, 25, zerolog.Nop())

	result, err := svc.UploadAudio(context.Background(), fileHeader(t, "answer.wav", wavPayload(64)))
	require.NoError(t, err)
	require.Equal(t, "hello world", result.Transcript)
}

func TestUploadAudioSurvivesTranscriptionFailure(t *testing.T) {
	recordings := &memoryRecordingRepo{}
	svc := NewUploadService(&stubStorage{}, recordings, &stubTranscriber{err: errors.New("whisper down")}, 25, zerolog.Nop())

	result, err := svc.UploadAudio(context.Background(), fileHeader(t, "answer.wav", wavPayload(64)))
	require.NoError(t, err)
	require.Empty(t, result.Transcript)
	require.Len(t, recordings.recordings, 1)
}
