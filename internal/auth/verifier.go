package auth

import (
	"errors"
)

const (
	CauseUnauthorized   = "Unauthorized"
	CauseSessionExpired = "Session expired, perform login again"
)

type scopeMode int

const (
	modeSimple scopeMode = iota
	modeUser
	modeAdmin
	modeGroup
)

// Scope is the authorization predicate a request must satisfy.
type Scope struct {
	mode     scopeMode
	username string
	isMember func(email string) bool
}

// ScopeSimple accepts any valid, unexpired credential pair.
func ScopeSimple() Scope {
	return Scope{mode: modeSimple}
}

// ScopeUser additionally requires the embedded username to match.
func ScopeUser(username string) Scope {
	return Scope{mode: modeUser, username: username}
}

// ScopeAdmin additionally requires the Admin role.
func ScopeAdmin() Scope {
	return Scope{mode: modeAdmin}
}

// ScopeGroup additionally requires the embedded email to pass the group's
// membership check. The caller supplies the check so this package stays
// ignorant of how groups are stored.
func ScopeGroup(isMember func(email string) bool) Scope {
	return Scope{mode: modeGroup, isMember: isMember}
}

func (s Scope) satisfiedBy(claims *Claims) bool {
	switch s.mode {
	case modeUser:
		return claims.Username == s.username
	case modeAdmin:
		return claims.Role == adminRole
	case modeGroup:
		return s.isMember != nil && s.isMember(claims.Email)
	default:
		return true
	}
}

// Result is the verifier's answer. RefreshedAccessToken is set when the
// access credential was silently renewed from the refresh credential; the
// boundary layer must deliver it to the caller before writing a body.
type Result struct {
	Authorized           bool
	Cause                string
	SessionExpired       bool
	RefreshedAccessToken string
	Claims               *Claims
}

type Verifier struct {
	tokens TokenManagerInterface
}

func NewVerifier(tokens TokenManagerInterface) *Verifier {
	return &Verifier{tokens: tokens}
}

// Verify runs the single verification routine parameterized by scope.
//
// A well-formed, unexpired access credential is checked against the scope
// directly. An expired access credential falls back to the refresh
// credential: if that one is valid and in scope, a fresh access token is
// minted from its claims. Both expired is a session-expired failure,
// distinct from a plain unauthorized one. Any malformed credential, and a
// pair whose embedded identities disagree, is unauthorized.
func (v *Verifier) Verify(accessToken, refreshToken string, scope Scope) Result {
	if accessToken == "" || refreshToken == "" {
		return unauthorized()
	}

	accessClaims, accessErr := v.tokens.Validate(accessToken)
	refreshClaims, refreshErr := v.tokens.Validate(refreshToken)

	switch {
	case accessErr == nil && refreshErr == nil:
		if !sameSubject(accessClaims, refreshClaims) {
			return unauthorized()
		}
		if !scope.satisfiedBy(accessClaims) {
			return unauthorized()
		}
		return Result{Authorized: true, Claims: accessClaims}

	case errors.Is(accessErr, ErrExpiredJWTToken):
		if errors.Is(refreshErr, ErrExpiredJWTToken) {
			return Result{Cause: CauseSessionExpired, SessionExpired: true}
		}
		if refreshErr != nil {
			return unauthorized()
		}
		if !scope.satisfiedBy(refreshClaims) {
			return unauthorized()
		}
		renewed, err := v.tokens.Generate(refreshClaims.Username, refreshClaims.Email, refreshClaims.Role, defaultAccessTokenDuration)
		if err != nil {
			return unauthorized()
		}
		return Result{Authorized: true, Claims: refreshClaims, RefreshedAccessToken: renewed}

	default:
		return unauthorized()
	}
}

func sameSubject(a, b *Claims) bool {
	return a.Username == b.Username && a.Email == b.Email && a.Role == b.Role
}

func unauthorized() Result {
	return Result{Cause: CauseUnauthorized}
}
