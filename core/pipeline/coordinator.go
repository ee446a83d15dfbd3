package pipeline

import (
	"context"

	"JerseyFM/logger"
	"JerseyFM/model"
)

// Labels used for the two uploads in logs and storage errors.
const (
	CoverLabel = "Cover Image"
	AudioLabel = "Audio File"
)

// AssetUploader stores one staged file and returns where it can be fetched.
type AssetUploader interface {
	Upload(ctx context.Context, name, label string) (*model.UploadResult, error)
}

// Coordinator uploads a cover and its audio, cover first.
type Coordinator struct {
	uploader AssetUploader
	observe  func(State)
}

// NewCoordinator creates a coordinator over uploader.
func NewCoordinator(uploader AssetUploader) *Coordinator {
	return &Coordinator{uploader: uploader}
}

// UploadAssets uploads the cover, then the audio. The audio upload is only
// attempted once the cover succeeded; the first error is returned as is.
func (c *Coordinator) UploadAssets(ctx context.Context, coverName, audioName string) (*model.AssetURLs, error) {
	c.enter(StateUploadingCover)
	logger.Info("Uploading cover image...", logger.String("file", coverName))
	cover, err := c.uploader.Upload(ctx, coverName, CoverLabel)
	if err != nil {
		return nil, err
	}

	c.enter(StateUploadingAudio)
	logger.Info("Uploading audio file...", logger.String("file", audioName))
	audio, err := c.uploader.Upload(ctx, audioName, AudioLabel)
	if err != nil {
		return nil, err
	}

	return &model.AssetURLs{CoverURL: cover.URL, AudioURL: audio.URL}, nil
}

func (c *Coordinator) enter(s State) {
	if c.observe != nil {
		c.observe(s)
	}
}
