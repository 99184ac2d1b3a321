package transformers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
	"github.com/kailas-cloud/featureflow/internal/metrics"
)

// ErrEmbeddingProviderError wraps every failure surfaced by an Embedder.
var ErrEmbeddingProviderError = errors.New("transformers: embedding provider error")

// EmbedderConfig configures an OpenAI-compatible embedding provider.
type EmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Provider   string
}

// Embedder calls an OpenAI-compatible embeddings endpoint, instrumented the
// same way the extraction pipeline instruments its own stages.
type Embedder struct {
	client   *openai.Client
	model    openai.EmbeddingModel
	dims     int
	provider string
}

// NewEmbedder returns an Embedder for the given provider config.
func NewEmbedder(cfg EmbedderConfig) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Embedder{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    openai.EmbeddingModel(cfg.Model),
		dims:     cfg.Dimensions,
		provider: cfg.Provider,
	}
}

// Embed converts text into a fixed-width vector. Extraction (via
// specbuilder.Required/Optional's plain func(T) A) is the only place in the
// pipeline with access to a context; BuildFeatures itself never blocks on
// network I/O, so embedding must happen while building the raw field, not
// while presenting it.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dims > 0 {
		req.Dimensions = e.dims
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		return nil, parseEmbeddingError(err)
	}
	if len(resp.Data) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "error").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, string(e.model)).Observe(duration.Seconds())

	raw := resp.Data[0].Embedding
	vec := make([]float64, len(raw))
	for i, f := range raw {
		vec[i] = float64(f)
	}
	return vec, nil
}

func parseEmbeddingError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), ErrEmbeddingProviderError)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, ErrEmbeddingProviderError)
	}
	return fmt.Errorf("embedding request failed: %w", ErrEmbeddingProviderError)
}

// EmbeddingField closes over an Embedder to produce a plain extractor
// function suitable for specbuilder.Optional. Failures (including a nil
// ctx.Err from a canceled background call) surface as a missing field
// rather than aborting the whole spec build.
func EmbeddingField[T any](e *Embedder, extract func(T) string) func(T) ([]float64, bool) {
	return func(t T) ([]float64, bool) {
		vec, err := e.Embed(context.Background(), extract(t))
		if err != nil {
			return nil, false
		}
		return vec, true
	}
}

// EmbeddingBlock emits a precomputed, fixed-width embedding vector as-is.
// It carries no learned aggregator state: the vector's width is fixed at
// construction, not derived from the dataset.
type EmbeddingBlock struct {
	name string
	dims int
}

// NewEmbeddingBlock returns an EmbeddingBlock named name with the given
// fixed vector width.
func NewEmbeddingBlock(name string, dims int) *EmbeddingBlock {
	return &EmbeddingBlock{name: name, dims: dims}
}

var _ feature.Transformer[[]float64, feature.Unit, feature.Unit] = (*EmbeddingBlock)(nil)

func (t *EmbeddingBlock) Name() string { return t.name }

func (t *EmbeddingBlock) Aggregator() feature.Aggregator[[]float64, feature.Unit, feature.Unit] {
	return feature.Stateless[[]float64]()
}

func (t *EmbeddingBlock) FeatureDimension(feature.Unit) int { return t.dims }

func (t *EmbeddingBlock) FeatureNames(feature.Unit) []string {
	names := make([]string, t.dims)
	for i := range names {
		names[i] = fmt.Sprintf("%s_%d", t.name, i)
	}
	return names
}

func (t *EmbeddingBlock) BuildFeatures(a feature.Option[[]float64], _ feature.Unit, sink feature.Sink) {
	v, ok := a.Get()
	if !ok || len(v) != t.dims {
		sink.SkipN(t.dims)
		return
	}
	for i, x := range v {
		sink.Add(fmt.Sprintf("%s_%d", t.name, i), x)
	}
}

func (t *EmbeddingBlock) EncodeAggregator(feature.Unit) (string, error) { return "", nil }

func (t *EmbeddingBlock) DecodeAggregator(string) (feature.Unit, error) { return feature.Unit{}, nil }

func (t *EmbeddingBlock) Params() map[string]string {
	return map[string]string{"kind": "openai_embedding", "dims": strconv.Itoa(t.dims)}
}
