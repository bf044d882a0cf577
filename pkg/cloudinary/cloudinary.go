package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// defaultFolder is where candidate answer recordings land when no folder is configured.
const defaultFolder = "voxera/recordings"

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service stores interview audio recordings in Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary-backed recording store.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	folder := strings.Trim(cfg.Folder, "/")
	if folder == "" {
		folder = defaultFolder
	}

	return &Service{
		client: cld,
		folder: folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload stores one recording and returns its secure URL. The resource type is
// left to Cloudinary: browser recorders emit webm/ogg containers that it files
// under video rather than raw.
func (s *Service) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     recordingPublicID(name),
		ResourceType: "auto",
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload recording: %w", err)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("recording uploaded to cloudinary")

	return result.SecureURL, nil
}

// recordingPublicID derives a collision-resistant public ID from the uploaded
// file name, since candidates routinely submit files all named "recording".
func recordingPublicID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "recording"
	}

	return fmt.Sprintf("%s-%d", base, time.Now().UnixNano())
}
