package irys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

type keySigner struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func newKeySigner(t *testing.T) *keySigner {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &keySigner{pub: pub, priv: priv}
}

func (k *keySigner) PublicKey() []byte      { return k.pub }
func (k *keySigner) Sign(msg []byte) []byte { return ed25519.Sign(k.priv, msg) }

func TestEncodeTags(t *testing.T) {
	raw, err := encodeTags([]Tag{{Name: "a", Value: "b"}})
	require.NoError(t, err)
	// count=1 (zigzag 2), len("a")=1, "a", len("b")=1, "b", end-of-array
	require.Equal(t, []byte{0x02, 0x02, 'a', 0x02, 'b', 0x00}, raw)

	raw, err = encodeTags(nil)
	require.NoError(t, err)
	require.Empty(t, raw)

	_, err = encodeTags([]Tag{{Name: "", Value: "x"}})
	require.Error(t, err)
}

func TestNewDataItemLayout(t *testing.T) {
	signer := newKeySigner(t)
	data := []byte("RIFF....WAVE")
	tags := []Tag{{Name: "Content-Type", Value: "audio/wav"}}

	item, err := NewDataItem(data, tags, signer)
	require.NoError(t, err)

	raw := item.Raw
	require.Equal(t, signatureTypeED25519, binary.LittleEndian.Uint16(raw[0:2]))
	sig := raw[2:66]
	require.Equal(t, item.Signature, sig)
	require.Equal(t, []byte(signer.pub), raw[66:98])
	require.Equal(t, byte(0), raw[98], "target flag")
	require.Equal(t, byte(0), raw[99], "anchor flag")
	require.Equal(t, uint64(1), binary.LittleEndian.Uint64(raw[100:108]))
	tagLen := binary.LittleEndian.Uint64(raw[108:116])
	rawTags := raw[116 : 116+tagLen]
	require.Equal(t, data, raw[116+tagLen:])

	msg := deepHash([][]byte{
		[]byte("dataitem"), []byte("1"), []byte("2"),
		signer.pub, nil, nil, rawTags, data,
	})
	require.True(t, ed25519.Verify(signer.pub, msg, sig))
	require.Equal(t, itemID(sig), item.ID)
	require.Len(t, item.ID, 43)
}

func TestNewDataItemRejectsBadOwner(t *testing.T) {
	_, err := NewDataItem([]byte("x"), nil, badSigner{})
	require.Error(t, err)
}

type badSigner struct{}

func (badSigner) PublicKey() []byte      { return []byte{1, 2, 3} }
func (badSigner) Sign(msg []byte) []byte { return nil }

func TestDeepHashIsOrderSensitive(t *testing.T) {
	a := deepHash([][]byte{[]byte("x"), []byte("y")})
	b := deepHash([][]byte{[]byte("y"), []byte("x")})
	require.Len(t, a, 48)
	require.NotEqual(t, a, b)
	require.Equal(t, a, deepHash([][]byte{[]byte("x"), []byte("y")}))
}
