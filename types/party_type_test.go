package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartyType_String(t *testing.T) {
	require.Equal(t, "public", TypePublic.String())
	require.Equal(t, "friends", TypeFriends.String())
	require.Equal(t, "private", TypePrivate.String())
	require.Equal(t, "unknown", PartyType(42).String())
}

func TestPartyType_JSONRoundTrip(t *testing.T) {
	for _, pt := range []PartyType{TypePublic, TypeFriends, TypePrivate} {
		data, err := json.Marshal(pt)
		require.NoError(t, err)

		var decoded PartyType
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, pt, decoded)
	}
}

func TestPartyType_UnmarshalRejectsUnknown(t *testing.T) {
	var pt PartyType
	require.Error(t, json.Unmarshal([]byte(`"ranked"`), &pt))
	require.Error(t, json.Unmarshal([]byte(`3`), &pt))
}

func TestPartyType_MarshalRejectsUnknown(t *testing.T) {
	_, err := json.Marshal(PartyType(42))
	require.Error(t, err)
}

func TestParsePartyType(t *testing.T) {
	pt, err := ParsePartyType("friends")
	require.NoError(t, err)
	require.Equal(t, TypeFriends, pt)

	_, err = ParsePartyType("solo")
	require.Error(t, err)
}
