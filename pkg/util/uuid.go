package util

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/google/uuid"
)

// NameSpacePNG scopes content ids for encoded images.
var NameSpacePNG = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.w3.org/TR/png/"))

// Md5Hex is the digest printed next to an encoded file's chunk table.
func Md5Hex(value []byte) string {
	sum := md5.Sum(value)
	return hex.EncodeToString(sum[:])
}

// ContentUUID is a stable name-based (v3) id for value, so identical
// encodings always get the same id.
func ContentUUID(value []byte) string {
	return uuid.NewMD5(NameSpacePNG, value).String()
}
