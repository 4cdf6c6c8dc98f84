package service

import (
	"staybook/pkg/credential"
	"staybook/pkg/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestAuthenticator_IssueVerify(t *testing.T) {
	auth := NewAuthenticator("secret", time.Hour)
	user := &model.User{ID: "665f1c2e9d1e8a0012345678", Email: "a@example.com", Role: model.RoleAdmin}

	token, err := auth.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := auth.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != "admin" || claims.Subject != user.ID {
		t.Errorf("claims = %+v", claims)
	}

	inspected, err := credential.Inspect(token)
	if err != nil || inspected.UserID != user.ID {
		t.Errorf("client-side Inspect = %+v, %v", inspected, err)
	}
}

func TestAuthenticator_Rejects(t *testing.T) {
	auth := NewAuthenticator("secret", time.Hour)
	user := &model.User{ID: "u1", Role: model.RoleGuest}

	expired := NewAuthenticator("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.Issue(user)

	otherKey, _ := NewAuthenticator("other", time.Hour).Issue(user)

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, credential.Claims{UserID: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, credential.Claims{}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expiredToken},
		{name: "wrong key", token: otherKey},
		{name: "alg none", token: unsigned},
		{name: "no user id", token: noUser},
		{name: "garbage", token: "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.Verify(tt.token); err == nil {
				t.Errorf("Verify(%s) should fail", tt.name)
			}
		})
	}
}
