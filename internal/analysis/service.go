package analysis

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
	"github.com/satyam539813/farmappsample/pkg/metrics"
	"github.com/satyam539813/farmappsample/pkg/vision"
)

const (
	DefaultPrompt = "Analyze this agricultural image briefly: 1) Crop type, 2) Health status, 3) Growth stage, 4) Visible issues, 5) Recommendations. Be concise."
	NoAnalysis    = "No analysis available"

	defaultMaxImageBytes int64 = 10 << 20
)

type visionClient interface {
	Analyze(ctx context.Context, req vision.AnalyzeRequest) (string, error)
}

// Request is an analysis call. Image is a base64 data URI.
type Request struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt,omitempty"`
}

// Result carries the model's answer.
type Result struct {
	Analysis string `json:"analysis"`
}

// Service validates images and forwards them to the vision model.
type Service interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	client   visionClient
	maxBytes int64
	metrics  *metrics.Storefront
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the analysis service. A nil client yields a service
// that rejects every call as unconfigured.
func NewService(client visionClient, maxImageBytes int64, recorder *metrics.Storefront, logg *logger.Logger) Service {
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		client:   client,
		maxBytes: maxImageBytes,
		metrics:  recorder,
		logg:     logg,
		now:      time.Now,
	}
}

func (s *service) Analyze(ctx context.Context, req Request) (*Result, error) {
	if err := validateDataURI(req.Image, s.maxBytes); err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image analysis is not configured")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}

	start := s.now()
	analysis, err := s.client.Analyze(ctx, vision.AnalyzeRequest{ImageURL: req.Image, Prompt: prompt})
	s.metrics.AnalysisCompleted(s.now().Sub(start), err)
	if err != nil {
		s.logg.Error(ctx, "image analysis failed", err)
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image analysis failed")
	}
	if strings.TrimSpace(analysis) == "" {
		analysis = NoAnalysis
	}
	return &Result{Analysis: analysis}, nil
}
