// Package artifact builds the artifact values attached to activities:
// photos and JSON data, named content-addressed so identical captures
// deduplicate.
package artifact

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/odvcencio/stagehand/pkg/events"
)

// Media types for the artifacts the core produces.
const (
	MediaTypePNG  = "image/png"
	MediaTypeJSON = "application/json"
)

// ContentHash derives a content-addressed name component: the sha256 of
// the raw bytes, hex-encoded.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentAddressedFilename derives a deduplicating filename for raw
// photo bytes.
func ContentAddressedFilename(data []byte) string {
	return ContentHash(data) + ".png"
}

// Photo wraps raw PNG bytes as a reportable artifact.
func Photo(name string, data []byte) events.Artifact {
	return events.Artifact{
		Name:      name,
		MediaType: MediaTypePNG,
		Base64:    base64.StdEncoding.EncodeToString(data),
	}
}

// JSONData wraps a serializable value as a reportable artifact.
func JSONData(name string, value any) (events.Artifact, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return events.Artifact{}, fmt.Errorf("encode artifact %q: %w", name, err)
	}
	return events.Artifact{
		Name:      name,
		MediaType: MediaTypeJSON,
		Base64:    base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Decode returns the artifact's raw payload bytes.
func Decode(a events.Artifact) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Base64)
	if err != nil {
		return nil, fmt.Errorf("decode artifact %q: %w", a.Name, err)
	}
	return data, nil
}
