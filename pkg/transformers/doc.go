// Package transformers is a reference library of concrete
// feature.Transformer implementations (§ SUPPLEMENTED FEATURES "reference
// transformer package"): identity passthrough, numeric scalers, categorical
// encoders, a geo grid bucketizer, and an embedding block for
// precomputed vectors.
package transformers
