// Package sink delivers the encoded report to its destination.
//
// Two sinks are provided: FSSink writes to the local filesystem (or
// standard output for "-"), S3Sink uploads to an S3-compatible object
// store. Construction is by destination path: s3:// paths get an
// S3Sink, everything else an FSSink.
package sink

import (
	"context"
	"strings"
)

// Sink writes one encoded report.
type Sink interface {
	// Write delivers the encoded report body.
	Write(ctx context.Context, body []byte) error
	// Destination describes where the report goes, for logs.
	Destination() string
}

// IsS3Path reports whether the destination names an S3 object.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}
