package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 签发和验证闭环
func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(1, 42, "admin", "admin", false, "")
	require.NoError(t, err)

	claims, err := manager.VerifyToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 1, claims.UserID)
	assert.EqualValues(t, 42, claims.TenantID)
	assert.Equal(t, "admin", claims.Username)
	assert.False(t, claims.IsPlatformAdmin)
	assert.Equal(t, "Servaan", claims.Issuer)
}

// 篡改和异钥令牌都被拒绝
func TestVerifyTokenRejectsTampered(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(1, 42, "admin", "admin", false, "")
	require.NoError(t, err)

	_, err = manager.VerifyToken(token + "x")
	assert.Error(t, err)

	other := NewJWTManager("other-secret", time.Hour)
	_, err = other.VerifyToken(token)
	assert.Error(t, err)

	_, err = manager.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

// 过期令牌被拒绝
func TestVerifyTokenExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken(1, 42, "admin", "admin", false, "")
	require.NoError(t, err)

	_, err = manager.VerifyToken(token)
	assert.Error(t, err)
}

// 刷新保留声明内容
func TestRefreshToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(1, 0, "platform", "", true, "super_admin")
	require.NoError(t, err)

	refreshed, err := manager.RefreshToken(token)
	require.NoError(t, err)

	claims, err := manager.VerifyToken(refreshed)
	require.NoError(t, err)
	assert.EqualValues(t, 0, claims.TenantID)
	assert.True(t, claims.IsPlatformAdmin)
	assert.Equal(t, "super_admin", claims.PlatformRole)
}
