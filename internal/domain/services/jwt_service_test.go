package services

import (
	"testing"

	"fieldops-http-service/internal/domain/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesTokenWithRole(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.User{
		Username: "tech1",
		Password: "tech1pass",
		Role:     models.RoleTechnician,
	}).Error)

	svc := NewJWTService(testConfig(), db)

	result, err := svc.Login("tech1", "tech1pass")
	require.NoError(t, err)
	assert.Equal(t, "tech1", result.Username)
	assert.Equal(t, models.RoleTechnician, result.Role)
	assert.NotEmpty(t, result.Token)

	token, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "tech1", claims["username"])
	assert.Equal(t, models.RoleTechnician, claims["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.User{
		Username: "tech1",
		Password: "tech1pass",
		Role:     models.RoleTechnician,
	}).Error)

	svc := NewJWTService(testConfig(), db)

	_, err := svc.Login("tech1", "wrong")
	assert.Error(t, err)

	_, err = svc.Login("nobody", "tech1pass")
	assert.Error(t, err)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(testConfig(), db)

	token, err := svc.GenerateToken(1, "tech1", models.RoleTechnician)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	other := NewJWTService(testConfig(), db).(*JWTService)
	other.secretKey = "different-secret"
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
