package settings

import (
	"fmt"

	jsonmerge "github.com/apapsch/go-jsonmerge/v2"
)

// MergePatch applies an RFC 7396 JSON merge patch over a settings document,
// letting a caller update one transformer's params without re-encoding the
// whole settings array (§ SUPPLEMENTED FEATURES "settings patching").
func MergePatch(base, patch []byte) ([]byte, error) {
	merger := jsonmerge.Merger{}
	merged, err := merger.MergeBytes(base, patch)
	if err != nil {
		return nil, fmt.Errorf("settings: merge patch: %w", err)
	}
	return merged, nil
}
