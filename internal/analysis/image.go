package analysis

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
)

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

func isAllowedImageType(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, allowed := range allowedImageTypes {
		if value == allowed {
			return true
		}
	}
	return false
}

// EncodeDataURI renders raw image bytes as a base64 data URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DetectImageType sniffs data and returns its mime type when it is an
// accepted image.
func DetectImageType(data []byte) (string, error) {
	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return allowed, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported image type %s", detected.String())).
		WithDetails(map[string]any{"allowed": allowedImageTypes})
}

// validateDataURI checks the declared type, the decoded size and the sniffed
// content of a base64 image data URI.
func validateDataURI(value string, maxBytes int64) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Image data is required")
	}
	if !strings.HasPrefix(value, "data:") {
		return pkgerrors.New(pkgerrors.CodeValidation, "image must be a data URI")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(value, "data:"), ",")
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "image data URI is malformed")
	}
	declared, encoding, _ := strings.Cut(meta, ";")
	if !strings.EqualFold(encoding, "base64") {
		return pkgerrors.New(pkgerrors.CodeValidation, "image data URI must be base64 encoded")
	}
	if !isAllowedImageType(declared) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported image type %s", declared)).
			WithDetails(map[string]any{"allowed": allowedImageTypes})
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return tooLarge(maxBytes)
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image data is not valid base64")
	}
	if maxBytes > 0 && int64(len(decoded)) > maxBytes {
		return tooLarge(maxBytes)
	}
	if _, err := DetectImageType(decoded); err != nil {
		return err
	}
	return nil
}

func tooLarge(maxBytes int64) error {
	return pkgerrors.New(pkgerrors.CodeTooLarge, fmt.Sprintf("image exceeds %d MB", maxBytes/(1<<20)))
}
