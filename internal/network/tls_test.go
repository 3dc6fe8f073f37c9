package network

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateHostCertificateTokenMatchesLeafFingerprint(t *testing.T) {
	cert, token, err := GenerateHostCertificate()
	require.NoError(t, err)
	require.Len(t, cert.Certificate, 1)

	sum := sha256.Sum256(cert.Certificate[0])
	require.Equal(t, hex.EncodeToString(sum[:]), token)
}

func TestGenerateHostCertificateIsUnique(t *testing.T) {
	_, tokenA, err := GenerateHostCertificate()
	require.NoError(t, err)
	_, tokenB, err := GenerateHostCertificate()
	require.NoError(t, err)
	require.NotEqual(t, tokenA, tokenB)
}

func TestPeerTLSConfigRejectsMalformedToken(t *testing.T) {
	_, err := PeerTLSConfig("not-hex-zz")
	require.Error(t, err)
}

func TestPeerTLSConfigVerifierAcceptsMatchingFingerprint(t *testing.T) {
	_, token, err := GenerateHostCertificate()
	require.NoError(t, err)
	cert, _, err := GenerateHostCertificate()
	require.NoError(t, err)

	// Rebuild the verifier against token, but hand it a different cert's
	// raw bytes to prove it only accepts an exact fingerprint match, then
	// against the matching raw bytes to prove it accepts.
	conf, err := PeerTLSConfig(token)
	require.NoError(t, err)
	require.Error(t, conf.VerifyPeerCertificate([][]byte{cert.Certificate[0]}, nil))

	hostCert, hostToken, err := GenerateHostCertificate()
	require.NoError(t, err)
	conf2, err := PeerTLSConfig(hostToken)
	require.NoError(t, err)
	require.NoError(t, conf2.VerifyPeerCertificate([][]byte{hostCert.Certificate[0]}, nil))
}

func TestPeerTLSConfigVerifierRejectsEmptyCertList(t *testing.T) {
	_, token, err := GenerateHostCertificate()
	require.NoError(t, err)
	conf, err := PeerTLSConfig(token)
	require.NoError(t, err)
	require.Error(t, conf.VerifyPeerCertificate(nil, nil))
}
