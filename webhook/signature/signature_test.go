package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	payload := []byte(`{"eventType":"order.created","orderNumber":"T-1001"}`)

	t.Run("hex encoding is the default", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		signed := Sign(scheme, "secret", payload)
		assert.Regexp(t, "^[0-9a-f]{64}$", signed)
	})

	t.Run("base64 encoding", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature", Encoding: EncodingBase64}
		signed := Sign(scheme, "secret", payload)
		assert.NotEmpty(t, signed)
		assert.NotRegexp(t, "^[0-9a-f]{64}$", signed)
	})

	t.Run("prefix is prepended", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature", Prefix: "sha256="}
		signed := Sign(scheme, "secret", payload)
		assert.Contains(t, signed, "sha256=")
	})

	t.Run("deterministic for same inputs", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		assert.Equal(t, Sign(scheme, "secret", payload), Sign(scheme, "secret", payload))
	})

	t.Run("different secrets produce different signatures", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		assert.NotEqual(t, Sign(scheme, "secret-a", payload), Sign(scheme, "secret-b", payload))
	})
}

func TestVerify(t *testing.T) {
	payload := []byte(`{"eventType":"order.created"}`)

	t.Run("success - hex", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		signed := Sign(scheme, "secret", payload)

		ok, err := Verify(scheme, "secret", payload, signed)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("success - base64 with prefix", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature", Encoding: EncodingBase64, Prefix: "v1="}
		signed := Sign(scheme, "secret", payload)

		ok, err := Verify(scheme, "secret", payload, signed)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("failure - wrong secret", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		signed := Sign(scheme, "secret", payload)

		ok, err := Verify(scheme, "other-secret", payload, signed)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("failure - tampered payload", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		signed := Sign(scheme, "secret", payload)

		ok, err := Verify(scheme, "secret", []byte(`{"eventType":"order.cancelled"}`), signed)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error - empty signature", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		ok, err := Verify(scheme, "secret", payload, "")
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("error - missing prefix", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature", Prefix: "sha256="}
		ok, err := Verify(scheme, "secret", payload, "deadbeef")
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("error - undecodable signature", func(t *testing.T) {
		scheme := Scheme{Header: "X-Test-Signature"}
		ok, err := Verify(scheme, "secret", payload, "not-hex-at-all!!")
		require.Error(t, err)
		assert.False(t, ok)
	})
}

func TestSchemeValidate(t *testing.T) {
	t.Run("empty encoding defaults to hex", func(t *testing.T) {
		assert.NoError(t, Scheme{Header: "X-Sig"}.Validate())
	})

	t.Run("hex and base64 are accepted", func(t *testing.T) {
		assert.NoError(t, Scheme{Header: "X-Sig", Encoding: EncodingHex}.Validate())
		assert.NoError(t, Scheme{Header: "X-Sig", Encoding: EncodingBase64}.Validate())
	})

	t.Run("unknown encoding is rejected", func(t *testing.T) {
		err := Scheme{Header: "X-Sig", Encoding: "md5"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported signature encoding")
	})
}
