package dto

// AudioUploadResponse returns the stored recording and, when transcription is
// configured, the transcript ready for use in a response submission.
type AudioUploadResponse struct {
	RecordingID uint   `json:"recording_id"`
	AudioURL    string `json:"audio_url"`
	Transcript  string `json:"transcript,omitempty"`
	SHA256      string `json:"sha256"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentType string `json:"content_type"`
}
