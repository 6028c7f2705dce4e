package kvutil_test

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"github.com/denispionicul/party/internal/kvutil"
	partytest "github.com/denispionicul/party/testing"
)

func TestEnsureBucket_CreatesAndReopens(t *testing.T) {
	_, nc := partytest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	cfg := jetstream.KeyValueConfig{
		Bucket:  "kvutil_ensure",
		History: 1,
		TTL:     time.Minute,
	}

	kv, err := kvutil.EnsureBucket(t.Context(), js, cfg, 3)
	require.NoError(t, err)
	require.NotNil(t, kv)

	// Second call hits the already-exists path and opens the same bucket.
	again, err := kvutil.EnsureBucket(t.Context(), js, cfg, 3)
	require.NoError(t, err)
	require.NotNil(t, again)

	_, err = kv.Put(t.Context(), "k", []byte("v"))
	require.NoError(t, err)

	entry, err := again.Get(t.Context(), "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), entry.Value())
}
