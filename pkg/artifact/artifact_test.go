package artifact

import (
	"strings"
	"testing"
)

func TestContentHash_Deterministic(t *testing.T) {
	data := []byte("png-bytes")

	if ContentHash(data) != ContentHash([]byte("png-bytes")) {
		t.Error("identical content hashed differently")
	}
	if ContentHash(data) == ContentHash([]byte("other-bytes")) {
		t.Error("different content produced the same hash")
	}
	if len(ContentHash(data)) != 64 {
		t.Errorf("hash length %d, want 64 hex chars", len(ContentHash(data)))
	}
}

func TestContentAddressedFilename(t *testing.T) {
	name := ContentAddressedFilename([]byte("png-bytes"))
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("filename %q missing .png suffix", name)
	}
	if !strings.HasPrefix(name, ContentHash([]byte("png-bytes"))) {
		t.Errorf("filename %q not content-addressed", name)
	}
}

func TestPhoto_RoundTrip(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}

	a := Photo("checkout page", raw)
	if a.Name != "checkout page" {
		t.Errorf("name %q", a.Name)
	}
	if a.MediaType != MediaTypePNG {
		t.Errorf("media type %q", a.MediaType)
	}

	decoded, err := Decode(a)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("decoded %v, want %v", decoded, raw)
	}
}

func TestJSONData(t *testing.T) {
	a, err := JSONData("basket", map[string]int{"items": 3})
	if err != nil {
		t.Fatalf("JSONData failed: %v", err)
	}
	if a.MediaType != MediaTypeJSON {
		t.Errorf("media type %q", a.MediaType)
	}

	decoded, err := Decode(a)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(decoded) != `{"items":3}` {
		t.Errorf("decoded %s", decoded)
	}
}

func TestJSONData_UnserializableValue(t *testing.T) {
	if _, err := JSONData("bad", func() {}); err == nil {
		t.Error("expected error for unserializable value")
	}
}

func TestDecode_InvalidBase64(t *testing.T) {
	if _, err := Decode(Photo("x", nil)); err != nil {
		t.Errorf("empty artifact should decode cleanly, got %v", err)
	}
	bad := Photo("x", []byte("data"))
	bad.Base64 = "not-base64!!!"
	if _, err := Decode(bad); err == nil {
		t.Error("expected error for invalid base64")
	}
}
