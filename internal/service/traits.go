package service

import "strings"

// MaxTags is the per-object tag limit shared by S3 and MinIO.
const MaxTags = 10

// mergeTags overlays updates on current: new keys are added, existing keys overwritten,
// nothing is removed. Tags with an empty key or value are stripped from the result.
func mergeTags(current, updates map[string]string) map[string]string {
	out := make(map[string]string, len(current)+len(updates))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return stripEmptyTags(out)
}

func stripEmptyTags(tags map[string]string) map[string]string {
	for k, v := range tags {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			delete(tags, k)
		}
	}
	return tags
}

// mergeMetadata overlays updates on current with lower-cased keys. Empty keys are dropped;
// empty values are kept since metadata, unlike tags, may carry blank entries.
func mergeMetadata(current, updates map[string]string) map[string]string {
	out := make(map[string]string, len(current)+len(updates))
	for k, v := range current {
		if k = normalizeKey(k); k != "" {
			out[k] = v
		}
	}
	for k, v := range updates {
		if k = normalizeKey(k); k != "" {
			out[k] = v
		}
	}
	return out
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
