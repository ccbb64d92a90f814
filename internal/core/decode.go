package core

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeContent returns the raw bytes of a hosted file. Base64 payloads may
// contain line breaks, as the GitHub contents API wraps them at 60 columns.
func DecodeContent(fc *FileContent) ([]byte, error) {
	if fc == nil {
		return nil, fmt.Errorf("%w: empty response", ErrDecode)
	}

	switch strings.ToLower(fc.Encoding) {
	case "base64":
		cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(fc.Content)
		data, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return data, nil
	case "", "utf-8", "utf8":
		return []byte(fc.Content), nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrDecode, fc.Encoding)
	}
}

// DecodeManifest decodes and parses a package.json payload.
func DecodeManifest(fc *FileContent) (*Manifest, error) {
	data, err := DecodeContent(fc)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// DecodeReadme decodes a readme payload into text.
func DecodeReadme(fc *FileContent) (string, error) {
	data, err := DecodeContent(fc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
