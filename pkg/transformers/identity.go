package transformers

import "github.com/kailas-cloud/featureflow/internal/domain/feature"

// Identity passes a numeric field through unchanged. It carries no learned
// state: Aggregator is feature.Stateless.
type Identity struct {
	name string
}

// NewIdentity returns an Identity transformer named name.
func NewIdentity(name string) *Identity { return &Identity{name: name} }

var _ feature.Transformer[float64, feature.Unit, feature.Unit] = (*Identity)(nil)

func (t *Identity) Name() string { return t.name }

func (t *Identity) Aggregator() feature.Aggregator[float64, feature.Unit, feature.Unit] {
	return feature.Stateless[float64]()
}

func (t *Identity) FeatureDimension(feature.Unit) int { return 1 }

func (t *Identity) FeatureNames(feature.Unit) []string { return []string{t.name} }

func (t *Identity) BuildFeatures(a feature.Option[float64], _ feature.Unit, sink feature.Sink) {
	v, ok := a.Get()
	if !ok {
		sink.Skip()
		return
	}
	sink.Add(t.name, v)
}

func (t *Identity) EncodeAggregator(feature.Unit) (string, error) { return "", nil }

func (t *Identity) DecodeAggregator(string) (feature.Unit, error) { return feature.Unit{}, nil }

func (t *Identity) Params() map[string]string { return map[string]string{"kind": "identity"} }
