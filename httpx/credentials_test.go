package httpx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/grace-register/config"
	"github.com/mbolis/grace-register/database"
	"github.com/mbolis/grace-register/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return buf
}

func TestValidateTokenIDUnknownToken(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "auth.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logs := captureLog(t)

	verifier := CredentialsVerifier(db, config.Config{AdminUser: "admin"})
	err = verifier.ValidateTokenID(oauth.TokenType("U"), "admin", "t1", "r1")
	assert.EqualError(t, err, "could not refresh")
	assert.NotContains(t, logs.String(), "auth.refresh")
}

func TestValidateTokenIDLogsDatabaseFailure(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "auth.sqlite"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	logs := captureLog(t)

	verifier := CredentialsVerifier(db, config.Config{AdminUser: "admin"})
	err = verifier.ValidateTokenID(oauth.TokenType("U"), "admin", "t1", "r1")
	assert.EqualError(t, err, "could not refresh")
	assert.Contains(t, logs.String(), "auth.refresh")
}
