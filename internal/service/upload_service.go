package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxera-dev/voxera-api/internal/dto"
	"github.com/voxera-dev/voxera-api/internal/models"
	"github.com/voxera-dev/voxera-api/internal/observability"
	"github.com/voxera-dev/voxera-api/internal/repository"
	"github.com/voxera-dev/voxera-api/pkg/ai"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the sniffed type is not audio.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
	// ErrStorageUnavailable indicates no file storage backend is configured.
	ErrStorageUnavailable = errors.New("file storage unavailable")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadService validates and stores candidate audio answers, transcribing them
// when a transcriber is configured.
type UploadService interface {
	UploadAudio(ctx context.Context, file *multipart.FileHeader) (dto.AudioUploadResponse, error)
}

type uploadService struct {
	storage     FileStorage
	recordings  repository.RecordingRepository
	transcriber ai.Transcriber
	logger      zerolog.Logger
	maxSize     int64
	tracer      trace.Tracer
}

// NewUploadService constructs an upload service. The transcriber may be nil; the
// transcript field is then left empty for the caller to fill in.
func NewUploadService(storage FileStorage, recordingRepo repository.RecordingRepository, transcriber ai.Transcriber, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	return &uploadService{
		storage:     storage,
		recordings:  recordingRepo,
		transcriber: transcriber,
		logger:      logger.With().Str("component", "upload_service").Logger(),
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		tracer:      otel.Tracer("github.com/voxera-dev/voxera-api/internal/service/upload"),
	}
}

func (s *uploadService) UploadAudio(parent context.Context, file *multipart.FileHeader) (dto.AudioUploadResponse, error) {
	ctx, span := s.tracer.Start(parent, "upload.audio")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if s.storage == nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(ErrStorageUnavailable)
		span.SetStatus(codes.Error, "storage unavailable")
		return dto.AudioUploadResponse{}, ErrStorageUnavailable
	}
	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.AudioUploadResponse{}, err
	}
	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.AudioUploadResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.AudioUploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return dto.AudioUploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return dto.AudioUploadResponse{}, ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !isAllowedAudio(mime.String()) {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.AudioUploadResponse{}, ErrUploadTypeNotAllowed
	}

	checksum := sha256.Sum256(buf.Bytes())
	digest := hex.EncodeToString(checksum[:])

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.AudioUploadResponse{}, err
	}

	recording := models.Recording{
		FileName:    file.Filename,
		URL:         url,
		SHA256:      digest,
		SizeBytes:   int64(buf.Len()),
		ContentType: mime.String(),
	}
	if err := s.recordings.Create(ctx, &recording); err != nil {
		span.RecordError(err)
		return dto.AudioUploadResponse{}, err
	}

	result := dto.AudioUploadResponse{
		RecordingID: recording.ID,
		AudioURL:    url,
		SHA256:      digest,
		SizeBytes:   recording.SizeBytes,
		ContentType: recording.ContentType,
	}

	if s.transcriber != nil {
		transcript, err := s.transcriber.Transcribe(ctx, file.Filename, buf.Bytes())
		if err != nil {
			// The recording is stored either way; the caller can still submit a
			// manually supplied transcript.
			s.logger.Warn().Err(err).Str("file", file.Filename).Msg("transcription failed")
		} else {
			result.Transcript = transcript
		}
	}

	s.logger.Info().Str("url", url).Int64("bytes", result.SizeBytes).Msg("audio stored")
	return result, nil
}

func isAllowedAudio(mime string) bool {
	if strings.HasPrefix(mime, "audio/") {
		return true
	}
	// Browser recorders commonly emit webm/ogg containers detected as video.
	switch mime {
	case "video/webm", "application/ogg":
		return true
	}
	return false
}
