package qrcode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stainley/CareerLaunch/pkg/qrcode"
)

const provisioningURI = "otpauth://totp/Career%20Launch:bob@example.com?secret=JBSWY3DPEHPK3PXP&issuer=Career%20Launch&algorithm=SHA1&digits=6&period=30"

func TestProvisioning(t *testing.T) {
	t.Parallel()

	t.Run("renders a PNG", func(t *testing.T) {
		t.Parallel()
		png, err := qrcode.Provisioning(provisioningURI, 128)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(png), "\x89PNG"), "output must be a PNG")
	})

	t.Run("zero size uses the default", func(t *testing.T) {
		t.Parallel()
		png, err := qrcode.Provisioning(provisioningURI, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("rejects non-otpauth payloads", func(t *testing.T) {
		t.Parallel()
		for _, payload := range []string{"", "https://example.com", "otpauth://hotp/x?secret=A"} {
			_, err := qrcode.Provisioning(payload, 128)
			assert.ErrorIs(t, err, qrcode.ErrNotProvisioningURI, "payload %q", payload)
		}
	})
}

func TestProvisioningDataURI(t *testing.T) {
	t.Parallel()

	dataURI, err := qrcode.ProvisioningDataURI(provisioningURI, 128)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURI, "data:image/png;base64,"))
}
