package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigwork-backend/internal/models"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestTokenManager_AccessRoundTrip(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.UserRoleEmployer}

	pair, accessExp, refreshExp, err := tm.GeneratePair(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 15*time.Minute, pair.ExpiresIn)
	assert.True(t, refreshExp.After(accessExp))

	userID, role, err := tm.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.UserRoleEmployer, role)
}

func TestTokenManager_RefreshCarriesSubjectAndJTI(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}

	pair, _, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	claims, err := tm.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_RefreshTokensAreUnique(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}

	first, _, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)
	second, _, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	tm := newTestTokenManager()
	other := NewTokenManager("other-access", "other-refresh", 15*time.Minute, 720*time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}

	pair, _, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	_, _, err = other.ParseAccess(pair.AccessToken)
	assert.Error(t, err)

	_, err = other.ParseRefresh(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpiredAccess(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	user := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}

	pair, _, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	_, _, err = tm.ParseAccess(pair.AccessToken)
	assert.Error(t, err)

	_, err = tm.ParseRefresh(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenManager_RefreshNotAcceptedAsAccess(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.UserRoleFreelancer}

	pair, _, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	_, _, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
