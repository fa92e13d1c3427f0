package textstore

import "github.com/twmb/murmur3"

// HashString fingerprints s with 64-bit murmur3.
func HashString(s string) uint64 {
	hash := murmur3.New64()
	if _, err := hash.Write([]byte(s)); err != nil {
		panic(err)
	}
	return hash.Sum64()
}

// HashBytes is HashString for already-read file contents; it is what
// resources.Fingerprint uses to key downloaded training resources.
func HashBytes(b []byte) uint64 {
	hash := murmur3.New64()
	if _, err := hash.Write(b); err != nil {
		panic(err)
	}
	return hash.Sum64()
}
