package fetch

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/preflighthq/preflight/internal/contract"
	"github.com/preflighthq/preflight/schema"
)

// ParseManifest decodes a package.json document. A manifest that is not valid
// JSON is treated as absent rather than fatal; the caller decides.
func ParseManifest(data []byte) (*schema.Manifest, error) {
	var manifest schema.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse package manifest: %w", err)
	}
	return &manifest, nil
}

// buildBundle assembles a SourceBundle from fetched files. The root
// package.json and requirements.txt get first-class slots; they stay in Files
// as well so text scanning still sees them.
func buildBundle(files map[string]string, skipped []string) *schema.SourceBundle {
	// Binary content smuggled behind a text extension gets skipped too.
	for path, content := range files {
		if !utf8.ValidString(content) {
			delete(files, path)
			skipped = append(skipped, path)
		}
	}

	bundle := &schema.SourceBundle{
		Files:        files,
		SkippedFiles: skipped,
	}

	if raw, ok := files["package.json"]; ok {
		manifest, err := ParseManifest([]byte(raw))
		if err != nil {
			contract.LogWarn("parsing package.json", err)
		} else {
			bundle.Manifest = manifest
		}
	}
	if raw, ok := files["requirements.txt"]; ok {
		bundle.RequirementsText = raw
	}
	return bundle
}
