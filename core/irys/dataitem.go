package irys

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

// Signature type 2 is ed25519, which is what Solana keys sign with.
const (
	signatureTypeED25519 uint16 = 2
	ed25519SigLength            = 64
	ed25519OwnerLength          = 32
)

// Tag is a name/value pair attached to an uploaded item.
type Tag struct {
	Name  string
	Value string
}

// Signer is the key that owns and signs uploads.
type Signer interface {
	PublicKey() []byte
	Sign(msg []byte) []byte
}

// DataItem is a signed ANS-104 bundle item ready to post to a node.
type DataItem struct {
	ID        string
	Signature []byte
	Raw       []byte
}

// NewDataItem wraps data in a signed ANS-104 data item with no target and
// no anchor.
func NewDataItem(data []byte, tags []Tag, signer Signer) (*DataItem, error) {
	owner := signer.PublicKey()
	if len(owner) != ed25519OwnerLength {
		return nil, fmt.Errorf("irys: owner key is %d bytes, want %d", len(owner), ed25519OwnerLength)
	}
	rawTags, err := encodeTags(tags)
	if err != nil {
		return nil, err
	}

	msg := deepHash([][]byte{
		[]byte("dataitem"),
		[]byte("1"),
		[]byte(strconv.Itoa(int(signatureTypeED25519))),
		owner,
		nil, // target
		nil, // anchor
		rawTags,
		data,
	})
	sig := signer.Sign(msg)
	if len(sig) != ed25519SigLength {
		return nil, fmt.Errorf("irys: signature is %d bytes, want %d", len(sig), ed25519SigLength)
	}

	var buf bytes.Buffer
	buf.Grow(2 + len(sig) + len(owner) + 2 + 16 + len(rawTags) + len(data))
	_ = binary.Write(&buf, binary.LittleEndian, signatureTypeED25519)
	buf.Write(sig)
	buf.Write(owner)
	buf.WriteByte(0) // target absent
	buf.WriteByte(0) // anchor absent
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(tags)))
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(rawTags)))
	buf.Write(rawTags)
	buf.Write(data)

	return &DataItem{
		ID:        itemID(sig),
		Signature: sig,
		Raw:       buf.Bytes(),
	}, nil
}

// itemID is base64url(sha256(signature)), the id gateways serve content under.
func itemID(sig []byte) string {
	sum := sha256.Sum256(sig)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// encodeTags serializes tags as an Avro array of {name: bytes, value: bytes}.
func encodeTags(tags []Tag) ([]byte, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	writeAvroLong(&buf, int64(len(tags)))
	for _, t := range tags {
		if t.Name == "" {
			return nil, errors.New("irys: tag name is empty")
		}
		writeAvroBytes(&buf, []byte(t.Name))
		writeAvroBytes(&buf, []byte(t.Value))
	}
	writeAvroLong(&buf, 0)
	return buf.Bytes(), nil
}

func writeAvroBytes(buf *bytes.Buffer, b []byte) {
	writeAvroLong(buf, int64(len(b)))
	buf.Write(b)
}

// writeAvroLong writes a zig-zag varint.
func writeAvroLong(buf *bytes.Buffer, n int64) {
	var tmp [binary.MaxVarintLen64]byte
	buf.Write(tmp[:binary.PutVarint(tmp[:], n)])
}
