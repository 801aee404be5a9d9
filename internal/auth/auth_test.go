package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hareru-app/backend/internal/model"
	"github.com/hareru-app/backend/internal/store"
)

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("Basic abc123")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("Bearer ")
	assert.Error(t, err)
}

func TestUserClaimsContext(t *testing.T) {
	claims := &UserClaims{UID: "user-1", Email: "user@example.com"}
	ctx := WithUserClaims(context.Background(), claims)
	assert.Equal(t, claims, GetUserClaims(ctx))
	assert.Nil(t, GetUserClaims(context.Background()))
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		tier    model.SubscriptionTier
		feature model.Feature
		want    bool
	}{
		{model.TierFree, model.FeatureGenerateInsights, false},
		{model.TierClear, model.FeatureGenerateInsights, true},
		{model.TierClearPro, model.FeatureGenerateInsights, true},
		{model.TierClear, model.FeatureParseReceipt, false},
		{model.TierClearPro, model.FeatureParseReceipt, true},
		{model.TierClear, model.FeatureAICoach, false},
		{model.TierClearPro, model.FeatureAICoach, true},
	}
	for _, tc := range cases {
		got, required := Authorize(tc.tier, tc.feature)
		assert.Equal(t, tc.want, got, "%s/%s", tc.tier, tc.feature)
		assert.NotEmpty(t, required)
	}
}

func TestLookupTier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := store.NewMockStore(ctrl)
	ctx := context.Background()

	t.Run("returns stored tier", func(t *testing.T) {
		mockStore.EXPECT().GetUser(ctx, "user-1").
			Return(&model.User{ID: "user-1", SubscriptionTier: model.TierClearPro}, nil)
		assert.Equal(t, model.TierClearPro, LookupTier(ctx, mockStore, "user-1", nil))
	})

	t.Run("unknown user defaults to free", func(t *testing.T) {
		mockStore.EXPECT().GetUser(ctx, "user-2").Return(nil, store.ErrNotFound)
		assert.Equal(t, model.TierFree, LookupTier(ctx, mockStore, "user-2", nil))
	})

	t.Run("store error defaults to free", func(t *testing.T) {
		mockStore.EXPECT().GetUser(ctx, "user-3").Return(nil, errors.New("firestore down"))
		assert.Equal(t, model.TierFree, LookupTier(ctx, mockStore, "user-3", nil))
	})

	t.Run("empty tier defaults to free", func(t *testing.T) {
		mockStore.EXPECT().GetUser(ctx, "user-4").Return(&model.User{ID: "user-4"}, nil)
		assert.Equal(t, model.TierFree, LookupTier(ctx, mockStore, "user-4", nil))
	})
}
