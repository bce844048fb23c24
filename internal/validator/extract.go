package validator

import "encoding/json"

// The external analysis record has carried its overall score under two
// different shapes across model-adapter versions. Extraction is an ordered
// list of extractor functions tried in sequence; the first hit wins. Neither
// path overlaps the keys this package injects, so re-validating an already
// augmented record extracts the same value.
type scoreExtractor func(record map[string]interface{}) (float64, bool)

var scoreExtractors = []scoreExtractor{
	summaryScore,
	coreMetadataScore,
}

// ExtractCurrentScore pulls the externally supplied 0-100 score out of the
// analysis record, defaulting to 0 when no known path holds a number. The
// zero default is intentional: a missing external score should be flagged by
// the discrepancy check, not silently ignored.
func ExtractCurrentScore(record map[string]interface{}) float64 {
	for _, extract := range scoreExtractors {
		if score, ok := extract(record); ok {
			return score
		}
	}
	return 0
}

// summaryScore reads summary.conformidade_geral.
func summaryScore(record map[string]interface{}) (float64, bool) {
	summary, ok := childMap(record, "summary")
	if !ok {
		return 0, false
	}
	return asNumber(summary["conformidade_geral"])
}

// coreMetadataScore reads core_analysis.structured.metadata.conformidade_geral_percent.
func coreMetadataScore(record map[string]interface{}) (float64, bool) {
	core, ok := childMap(record, "core_analysis")
	if !ok {
		return 0, false
	}
	structured, ok := childMap(core, "structured")
	if !ok {
		return 0, false
	}
	metadata, ok := childMap(structured, "metadata")
	if !ok {
		return 0, false
	}
	return asNumber(metadata["conformidade_geral_percent"])
}

func childMap(parent map[string]interface{}, key string) (map[string]interface{}, bool) {
	child, ok := parent[key].(map[string]interface{})
	return child, ok
}

// asNumber accepts the numeric representations a decoded JSON record may
// carry for a score field.
func asNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
