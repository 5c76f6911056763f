package auth

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInternalError      = errors.New("internal server error")
)

// adminRole is the claim value granting the Admin scope.
const adminRole = "Admin"

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
	cookiePath        = "/api"
)

// Account carries the identity attributes auth needs for password
// verification and token minting.
type Account struct {
	Username     string
	Email        string
	Role         string
	PasswordHash string
}

// AccountSource resolves a login email to an account. Lookup misses are
// reported as ErrAccountNotFound.
type AccountSource interface {
	AccountByEmail(email string) (*Account, error)
}

// AuthResult is what a handler gets back from a successful scope check:
// the verified identity plus, when silent renewal happened, the fresh
// access token that must be surfaced in the response body.
type AuthResult struct {
	Claims               *Claims
	RefreshedAccessToken string
}

type Service interface {
	Login(email, password string) (accessToken, refreshToken string, err error)
	// Authorize checks the request's credential pair against the given
	// scopes, in order; the first satisfied scope wins. On failure it
	// writes the 401 response itself and returns ok=false. On success it
	// sets the renewed access cookie (if any) before returning, so it is
	// delivered ahead of the body.
	Authorize(w http.ResponseWriter, r *http.Request, scopes ...Scope) (AuthResult, bool)
	SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string)
	ClearAuthCookies(w http.ResponseWriter)
}

type service struct {
	accounts AccountSource
	tokens   TokenManagerInterface
	verifier *Verifier
}

func NewAuthService(accounts AccountSource, tokens TokenManagerInterface) Service {
	return &service{
		accounts: accounts,
		tokens:   tokens,
		verifier: NewVerifier(tokens),
	}
}

func (s *service) Login(email, password string) (string, string, error) {
	account, err := s.accounts.AccountByEmail(email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", ErrInternalError
	}

	if !doPasswordsMatch(account.PasswordHash, password) {
		return "", "", ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Generate(account.Username, account.Email, account.Role, defaultAccessTokenDuration)
	if err != nil {
		return "", "", ErrInternalError
	}
	refreshToken, err := s.tokens.Generate(account.Username, account.Email, account.Role, defaultRefreshTokenDuration)
	if err != nil {
		return "", "", ErrInternalError
	}
	return accessToken, refreshToken, nil
}

func (s *service) Authorize(w http.ResponseWriter, r *http.Request, scopes ...Scope) (AuthResult, bool) {
	accessToken := cookieValue(r, accessCookieName)
	refreshToken := cookieValue(r, refreshCookieName)

	var firstFailure Result
	for i, scope := range scopes {
		result := s.verifier.Verify(accessToken, refreshToken, scope)
		if result.Authorized {
			if result.RefreshedAccessToken != "" {
				s.setAccessCookie(w, result.RefreshedAccessToken)
			}
			return AuthResult{Claims: result.Claims, RefreshedAccessToken: result.RefreshedAccessToken}, true
		}
		if i == 0 {
			firstFailure = result
		}
	}

	writeJSONError(w, http.StatusUnauthorized, firstFailure.Cause)
	return AuthResult{}, false
}

func (s *service) SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	s.setAccessCookie(w, accessToken)
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		HttpOnly: true,
		Path:     cookiePath,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *service) ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     cookiePath,
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func (s *service) setAccessCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    accessToken,
		HttpOnly: true,
		Path:     cookiePath,
		SameSite: http.SameSiteStrictMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}
