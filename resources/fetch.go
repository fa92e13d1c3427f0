package resources

import (
	"os"
	"strconv"
	"strings"

	"github.com/anglisano/nametag/textstore"
)

// Fetch reads path, which may be a plain filesystem path (read locally,
// no AWS credentials needed) or an "s3://bucket/key" uri (read through
// client). Unit tests only ever use plain paths.
func Fetch(client *Client, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "s3://") {
		return os.ReadFile(path)
	}
	return client.Download(path)
}

// Fingerprint hashes a resource's already-fetched bytes; the training
// CLI names its local copy of a downloaded Brown-cluster or gazetteer
// file by it, so an unchanged file maps to the same cached path.
func Fingerprint(data []byte) string {
	return strconv.FormatUint(textstore.HashBytes(data), 16)
}
