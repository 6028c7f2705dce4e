// Package kvutil provides helpers for NATS JetStream KeyValue buckets.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// EnsureBucket creates or opens a KV bucket, retrying transient failures.
//
// Several processes (an origin server and its reserved destinations) may
// race to create the same bucket; ErrBucketExists is handled by opening the
// existing bucket instead. Other failures are retried with exponential
// backoff.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - maxAttempts: Maximum attempts (values < 1 default to 3)
//
// Returns:
//   - jetstream.KeyValue: The bucket
//   - error: Last error after all attempts, or context cancellation
func EnsureBucket(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig, maxAttempts int) (jetstream.KeyValue, error) {
	if maxAttempts < 1 {
		maxAttempts = 3
	}

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		kv, err := js.CreateKeyValue(ctx, config)
		if err == nil {
			return kv, nil
		}

		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, openErr := js.KeyValue(ctx, config.Bucket)
			if openErr == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", openErr)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled while ensuring KV bucket: %w", ctx.Err())
		}

		if attempt < maxAttempts-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is small and bounded
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("failed to ensure KV bucket %s after %d attempts: %w", config.Bucket, maxAttempts, lastErr)
}
