package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_ConservaEmpresaYRol(t *testing.T) {
	tok, err := Generate("s3cr3t", "u-1", "empresa-1", RoleBodeguero, "telas-api", 5)
	require.NoError(t, err)

	userID, companyID, role, err := Parse("s3cr3t", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "empresa-1", companyID)
	assert.Equal(t, RoleBodeguero, role)
}

func TestParse_Rechazos(t *testing.T) {
	expired, err := Generate("s3cr3t", "u-1", "empresa-1", RoleAdmin, "telas-api", -1)
	require.NoError(t, err)
	_, _, _, err = Parse("s3cr3t", expired)
	assert.Error(t, err)

	valid, err := Generate("s3cr3t", "u-1", "empresa-1", RoleAdmin, "telas-api", 5)
	require.NoError(t, err)
	_, _, _, err = Parse("otro", valid)
	assert.Error(t, err)

	_, _, _, err = Parse("", valid)
	assert.Error(t, err)

	_, err = Generate("", "u-1", "empresa-1", RoleAdmin, "telas-api", 5)
	assert.Error(t, err)
}
