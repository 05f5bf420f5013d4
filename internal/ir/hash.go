package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainTemplate = "uppmon/template/v1"
	DomainDocument = "uppmon/document/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TemplateHash computes the content-addressed identity of a template.
// Two templates hash equal exactly when they render to the same element tree.
func TemplateHash(t Template) (string, error) {
	canonical, err := MarshalCanonical(t.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("TemplateHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTemplate, canonical), nil
}

// DocumentHash computes the content-addressed identity of a document.
func DocumentHash(d Document) (string, error) {
	templates := make([]any, len(d.Templates))
	for i, t := range d.Templates {
		templates[i] = t.canonicalMap()
	}
	queries := make([]any, len(d.Queries))
	for i, q := range d.Queries {
		m := map[string]any{"formula": q.Formula}
		putString(m, "comment", q.Comment)
		queries[i] = m
	}
	obj := map[string]any{
		"templates": templates,
		"queries":   queries,
	}
	putString(obj, "declaration", d.Declaration)
	putString(obj, "system", d.System)

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DocumentHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDocument, canonical), nil
}

// MustTemplateHash is like TemplateHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTemplateHash(t Template) string {
	h, err := TemplateHash(t)
	if err != nil {
		panic(err)
	}
	return h
}
