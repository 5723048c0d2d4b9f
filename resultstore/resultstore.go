// Copyright © 2021 Luther Systems, Ltd. All right reserved.

// Package resultstore stores serialized bucketing results (Distance,
// Ranges, or report output) keyed by request id, so large results can be
// fetched out-of-band from the synchronous HTTP response.
package resultstore

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	// ErrRequestNotFound is returned when a result is not found.
	ErrRequestNotFound = fmt.Errorf("key not found")
)

// Getter gets stored results.
type Getter interface {
	// Get retrieves the result.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Putter stores results.
type Putter interface {
	// Put stores the result.
	Put(ctx context.Context, key string, body []byte) error
}

// Deleter deletes results.
type Deleter interface {
	// Delete removes the result.
	Delete(ctx context.Context, key string) error
}

// ResultStore provides result storage services.
type ResultStore interface {
	Getter
	Putter
	Deleter
}

var validKeyRegexp = regexp.MustCompile(`^[a-zA-Z0-9_./()-]*$`)

// ValidKey returns an error if the key is invalid.
func ValidKey(key string) error {
	if key == "" {
		return fmt.Errorf("missing key")
	}
	if !validKeyRegexp.MatchString(key) {
		return fmt.Errorf("invalid key")
	}
	if key != strings.TrimPrefix(path.Join("/", key), "/") {
		// *IMPORTANT:* we sanitize the key by first turning it into an
		// absolute path.
		// If the key is not the same after sanitization then potential
		// path traversal.
		// Note path.Join calls Clean on the path.
		return fmt.Errorf("invalid path")
	}
	return nil
}
