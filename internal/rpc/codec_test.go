package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_PointerFieldsSurvive(t *testing.T) {
	c := jsonCodec{}
	email := "a@example.com"
	in := &UpdateUserRequest{Username: "alice", Email: &email}

	b, err := c.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "role", "unset fields are omitted")

	var out UpdateUserRequest
	require.NoError(t, c.Unmarshal(b, &out))
	require.NotNil(t, out.Email)
	assert.Equal(t, email, *out.Email)
	assert.Nil(t, out.Role)
}

func TestCodec_EmptyPayload(t *testing.T) {
	var out PingRequest
	assert.NoError(t, jsonCodec{}.Unmarshal(nil, &out))
	assert.Error(t, jsonCodec{}.Unmarshal([]byte("{"), &out))
}
