package utils

import (
	"testing"
	"time"
)

func TestAccessToken_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("super-secret", Claims{UserID: 42, Role: "user"}, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	claims, err := VerifyToken(tok.Token, "super-secret")
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("userID mismatch: got %d want 42", claims.UserID)
	}
	if claims.Role != "user" {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, "user")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("secret", Claims{UserID: 1, Role: "user"}, -1*time.Second)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	_, err = VerifyToken(tok.Token, "secret")
	if err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("right-secret", Claims{UserID: 2, Role: "user"}, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	_, err = VerifyToken(tok.Token, "wrong-secret")
	if err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for forged signature, got %v", err)
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := VerifyToken("not.a.jwt", "k"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

// Access and refresh tokens are signed with independent secrets; one must
// never verify under the other.
func TestTokens_NoCrossAcceptance(t *testing.T) {
	t.Parallel()

	claims := Claims{UserID: 7, Role: "artist"}
	access, err := NewAccessToken("access-secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	refresh, err := NewRefreshToken("refresh-secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}

	if _, err := VerifyToken(access.Token, "refresh-secret"); err != ErrInvalidToken {
		t.Fatalf("access token verified under refresh secret: %v", err)
	}
	if _, err := VerifyToken(refresh.Token, "access-secret"); err != ErrInvalidToken {
		t.Fatalf("refresh token verified under access secret: %v", err)
	}
}

func TestRefreshAccess_Success(t *testing.T) {
	claims := Claims{UserID: 9, Role: "user"}
	first, err := NewAccessToken("access-secret", claims, 30*time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	refresh, err := NewRefreshToken("refresh-secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}

	// Make sure the re-issued token gets a later exp than the first one.
	time.Sleep(1100 * time.Millisecond)

	second, err := RefreshAccess(refresh.Token, "refresh-secret", "access-secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("RefreshAccess error: %v", err)
	}
	got, err := VerifyToken(second.Token, "access-secret")
	if err != nil {
		t.Fatalf("VerifyToken on refreshed access error: %v", err)
	}
	if got != claims {
		t.Fatalf("claims not carried over: %+v", got)
	}
	if !second.Exp.After(first.Exp) {
		t.Fatalf("refreshed access token not distinctly issued: first exp %v, second exp %v", first.Exp, second.Exp)
	}
}

func TestRefreshAccess_ExpiredRefresh(t *testing.T) {
	t.Parallel()

	refresh, err := NewRefreshToken("refresh-secret", Claims{UserID: 9, Role: "user"}, -1*time.Minute)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}
	if _, err := RefreshAccess(refresh.Token, "refresh-secret", "access-secret", time.Hour); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired refresh, got %v", err)
	}
}

func TestRefreshAccess_AccessTokenRejected(t *testing.T) {
	t.Parallel()

	access, err := NewAccessToken("access-secret", Claims{UserID: 3, Role: "user"}, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	if _, err := RefreshAccess(access.Token, "refresh-secret", "access-secret", time.Hour); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken when an access token is used as refresh, got %v", err)
	}
}
