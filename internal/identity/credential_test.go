package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCredential struct {
	scopes []string
	err    error
}

func (f *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.scopes = opts.Scopes
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	return azcore.AccessToken{Token: "tok-123", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func TestToken(t *testing.T) {
	cred := &fakeCredential{}

	tok, err := Token(context.Background(), cred, CognitiveServicesScope)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)
	assert.Equal(t, []string{CognitiveServicesScope}, cred.scopes)
}

func TestToken_Error(t *testing.T) {
	boom := errors.New("no identity available")
	cred := &fakeCredential{err: boom}

	_, err := Token(context.Background(), cred, SearchScope)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), SearchScope)
}
