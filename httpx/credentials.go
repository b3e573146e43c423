package httpx

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/oauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/grace-register/config"
	"github.com/mbolis/grace-register/log"
)

const refreshTTL = 8760 * time.Hour

// credentialsVerifier knows a single administrator, configured by name
// and bcrypt password hash. Refresh tokens are single use and tracked in
// the token table.
type credentialsVerifier struct {
	db           *sql.DB
	username     string
	passwordHash []byte
	now          func() time.Time
}

func CredentialsVerifier(db *sql.DB, cfg config.Config) oauth.CredentialsVerifier {
	return &credentialsVerifier{
		db:           db,
		username:     cfg.AdminUser,
		passwordHash: []byte(cfg.AdminPasswordHash),
		now:          time.Now,
	}
}

func NewBearerServer(db *sql.DB, cfg config.Config) *oauth.BearerServer {
	return oauth.NewBearerServer(cfg.TokenSecret, cfg.TokenTTL, CredentialsVerifier(db, cfg), nil)
}

func (cs *credentialsVerifier) ValidateUser(username string, password string, scope string, r *http.Request) error {
	if len(cs.passwordHash) == 0 || username != cs.username {
		return errors.New("invalid credentials")
	}
	return bcrypt.CompareHashAndPassword(cs.passwordHash, []byte(password))
}
func (cs *credentialsVerifier) StoreTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	_, err := cs.db.Exec(
		"INSERT INTO token (username, token_id, refresh_token_id, expiration) VALUES (?, ?, ?, ?)",
		credential,
		tokenID,
		refreshTokenID,
		cs.now().Add(refreshTTL),
	)
	return err
}
func (cs *credentialsVerifier) ValidateTokenID(tokenType oauth.TokenType, credential string, tokenID string, refreshTokenID string) error {
	var expiration time.Time
	err := cs.db.
		QueryRow(`
			DELETE FROM token
			WHERE username = ?
				AND token_id = ?
				AND refresh_token_id = ?
			RETURNING expiration`,
			credential,
			tokenID,
			refreshTokenID,
		).
		Scan(&expiration)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errors.New("could not refresh")
	case err != nil:
		log.Errorf("auth.refresh: %s", err)
		return errors.New("could not refresh")
	}

	if expiration.Before(cs.now()) {
		return errors.New("could not refresh")
	}
	return nil
}
func (*credentialsVerifier) AddClaims(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{"roles": "admin"}, nil
}
func (*credentialsVerifier) AddProperties(tokenType oauth.TokenType, credential string, tokenID string, scope string, r *http.Request) (map[string]string, error) {
	return map[string]string{}, nil
}
func (*credentialsVerifier) ValidateClient(clientID string, clientSecret string, scope string, r *http.Request) error {
	return errors.New("not supported")
}
