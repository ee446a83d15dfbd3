// Package pipeline runs one mint request end to end: validate, upload the
// cover, upload the audio, build the mint payload and submit it.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"JerseyFM/core/mint"
	"JerseyFM/logger"
	"JerseyFM/model"
)

// State is a step of a pipeline run. Runs only ever move forward.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploadingCover
	StateUploadingAudio
	StateBuildingPayload
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateUploadingCover:
		return "uploading_cover"
	case StateUploadingAudio:
		return "uploading_audio"
	case StateBuildingPayload:
		return "building_payload"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrMissingFields is the message clients see for an incomplete request.
var ErrMissingFields = errors.New("Missing required fields")

// ValidationError lists the required request fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrMissingFields }

// Validate checks that every required field is present.
func Validate(req *model.MintRequest) error {
	if req == nil {
		return &ValidationError{Fields: []string{"body"}}
	}
	if missing := req.MissingFields(); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Submitter sends a built payload to the minting endpoint.
type Submitter interface {
	Submit(ctx context.Context, payload *model.MintPayload) (*model.MintOutcome, error)
}

// Observer is told about every state a run enters, in order.
type Observer func(State)

// Result carries what a run produced, for callers that keep records.
// Fields are filled as far as the run got.
type Result struct {
	Outcome *model.MintOutcome
	Assets  *model.AssetURLs
	Payload *model.MintPayload
	Failed  State // state the run was in when it failed; StateIdle on success
}

// Pipeline wires the uploader and submitter together. It holds no per-run
// state and is safe to share between requests.
type Pipeline struct {
	uploader  AssetUploader
	submitter Submitter
}

// New creates a pipeline.
func New(uploader AssetUploader, submitter Submitter) *Pipeline {
	return &Pipeline{uploader: uploader, submitter: submitter}
}

// Run executes one request and returns its outcome.
func (p *Pipeline) Run(ctx context.Context, req *model.MintRequest) (*model.MintOutcome, error) {
	res, err := p.Execute(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	return res.Outcome, nil
}

// Execute runs one request, reporting each state to observe (which may be
// nil). Any error ends the run in StateFailed and is returned unmodified.
func (p *Pipeline) Execute(ctx context.Context, req *model.MintRequest, observe Observer) (*Result, error) {
	res := &Result{}
	current := StateIdle
	enter := func(s State) {
		current = s
		if observe != nil {
			observe(s)
		}
	}
	fail := func(err error) (*Result, error) {
		res.Failed = current
		logger.Error("Minting error",
			logger.String("state", current.String()),
			logger.ErrorField(err))
		enter(StateFailed)
		return res, err
	}

	start := time.Now()
	enter(StateIdle)

	enter(StateValidating)
	if err := Validate(req); err != nil {
		return fail(err)
	}
	logger.Info("Starting mint process",
		logger.String("songTitle", req.SongTitle),
		logger.String("artistName", req.ArtistName))

	coord := &Coordinator{uploader: p.uploader, observe: enter}
	assets, err := coord.UploadAssets(ctx, req.CoverFileName, req.AudioFileName)
	if err != nil {
		return fail(err)
	}
	res.Assets = assets

	enter(StateBuildingPayload)
	res.Payload = mint.BuildPayload(req, assets.CoverURL, assets.AudioURL)

	enter(StateSubmitting)
	logger.Info("Minting compressed NFT...", logger.String("owner", req.OwnerAddress))
	out, err := p.submitter.Submit(ctx, res.Payload)
	if err != nil {
		return fail(err)
	}
	res.Outcome = out

	enter(StateSuccess)
	logger.Info("mint complete",
		logger.String("assetId", out.AssetID),
		logger.String("signature", out.Signature),
		logger.Duration("elapsed", time.Since(start)))
	return res, nil
}
