package irys

import (
	"crypto/sha512"
	"strconv"
)

// deepHash implements the Arweave deep-hash over a list of blobs, which is
// the message a bundle data item signs.
func deepHash(chunks [][]byte) []byte {
	acc := sha384([]byte("list" + strconv.Itoa(len(chunks))))
	for _, c := range chunks {
		acc = sha384(append(acc, deepHashBlob(c)...))
	}
	return acc
}

func deepHashBlob(b []byte) []byte {
	tag := sha384([]byte("blob" + strconv.Itoa(len(b))))
	return sha384(append(tag, sha384(b)...))
}

func sha384(b []byte) []byte {
	sum := sha512.Sum384(b)
	return sum[:]
}
