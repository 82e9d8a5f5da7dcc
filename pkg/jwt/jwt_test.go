package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/ventas-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "cajero-1", "ventas-api-test", 5)
	require.NoError(t, err)

	userID, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "cajero-1", userID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "cajero-1", "ventas-api-test", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "cajero-1", "ventas-api-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretOUsuarioVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "cajero-1", "x", 5)
	assert.Error(t, err)
	_, err = pkgjwt.Generate(secret, "", "x", 5)
	assert.Error(t, err)
}
