package context_test

import (
	"context"
	"testing"

	"github.com/muhammadheryan/internmatch/model"
	utilsContext "github.com/muhammadheryan/internmatch/utils/context"
	"github.com/stretchr/testify/assert"
)

func TestClaimsRoundTrip(t *testing.T) {
	ctx := utilsContext.WithClaims(context.Background(), &model.TokenClaims{UserID: "u-1", Username: "joe"})

	claims, ok := utilsContext.GetClaims(ctx)
	assert.True(t, ok)
	assert.Equal(t, "joe", claims.Username)

	id, ok := utilsContext.GetUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
}

func TestGetUserID_Missing(t *testing.T) {
	_, ok := utilsContext.GetUserID(context.Background())
	assert.False(t, ok)

	ctx := utilsContext.WithClaims(context.Background(), &model.TokenClaims{})
	_, ok = utilsContext.GetUserID(ctx)
	assert.False(t, ok)
}
