package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/swarna-khata-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cr3t", "u1", "shop1", "admin", "test", 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse("s3cr3t", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "shop1", claims.ShopID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("uno", "u1", "", "staff", "test", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("s", "u1", "", "staff", "test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("s", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := pkgjwt.Generate("", "u1", "", "staff", "test", 5)
	assert.Error(t, err)
}
