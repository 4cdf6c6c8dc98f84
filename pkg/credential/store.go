// Package credential keeps the session's bearer token.
//
// Every backend stores the same JSON payload, {"token": "..."}, and every backend
// reports a missing, unreadable or malformed payload as "no token" instead of an
// error: a corrupted credential is treated as a signed-out session.
package credential

import (
	"encoding/json"
	"strings"
)

// Store holds at most one token.
type Store interface {
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

type payload struct {
	Token string `json:"token"`
}

// Unquote strips exactly one leading and one trailing double quote when both are present.
// Tokens that went through an extra JSON encoding on their way to storage come back quoted.
func Unquote(token string) string {
	if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
		return token[1 : len(token)-1]
	}
	return token
}

func encode(token string) ([]byte, error) {
	return json.Marshal(payload{Token: token})
}

func decode(data []byte) (string, bool) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", false
	}
	token := Unquote(p.Token)
	if token == "" {
		return "", false
	}
	return token, true
}
