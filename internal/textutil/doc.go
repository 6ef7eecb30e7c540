// Package textutil provides the text normalisation shared by the pipeline
// stages: slug derivation for store keys and boundary-aware truncation of
// reference summaries.
package textutil
