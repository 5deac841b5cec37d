// Package qrcode renders two-factor provisioning payloads as QR codes.
//
// The identity provider returns an otpauth:// URI on first-time enrollment;
// the client is responsible for presenting it as a scannable image. Only
// otpauth URIs are accepted so arbitrary provider payloads cannot be turned
// into QR codes.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrNotProvisioningURI is returned when the payload is not an
	// otpauth:// URI.
	ErrNotProvisioningURI = errors.New("qrcode: payload is not an otpauth provisioning URI")

	// ErrGenerationFailed is returned when QR encoding fails.
	ErrGenerationFailed = errors.New("qrcode: failed to generate QR code")
)

// defaultSize is the edge length in pixels used when no size is given.
const defaultSize = 256

// Provisioning renders an otpauth:// URI as a PNG image.
func Provisioning(uri string, size int) ([]byte, error) {
	if !strings.HasPrefix(uri, "otpauth://totp/") {
		return nil, ErrNotProvisioningURI
	}
	if size <= 0 {
		size = defaultSize
	}

	png, err := skipqrcode.Encode(uri, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrGenerationFailed, err)
	}
	return png, nil
}

// ProvisioningDataURI renders an otpauth:// URI as a base64 PNG data URI
// suitable for direct embedding in an <img> element.
func ProvisioningDataURI(uri string, size int) (string, error) {
	png, err := Provisioning(uri, size)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
