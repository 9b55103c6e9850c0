package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"portfolio/internal/domain/content"
)

type Fingerprint struct {
	ContentHash string
	SourceHash  string
	RenderHash  string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.SourceHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

// Of fingerprints an article list fetched from source. Two fetches with the
// same articles in the same order produce the same value.
func Of(source string, articles []content.Article) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, a := range articles {
		_ = enc.Encode(a)
	}
	f := Fingerprint{
		ContentHash: hex.EncodeToString(h.Sum(nil)),
		SourceHash:  hashString(source),
	}
	f.ComputeRenderHash()
	return f.RenderHash
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
