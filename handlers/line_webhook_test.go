package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	if !validateSignature(secret, body, sign(secret, body)) {
		t.Fatalf("expected valid signature to pass")
	}
	if validateSignature(secret, body, sign("other-secret", body)) {
		t.Fatalf("expected signature from wrong secret to fail")
	}
	if validateSignature(secret, []byte(`{"events":[{}]}`), sign(secret, body)) {
		t.Fatalf("expected signature over different body to fail")
	}
	if validateSignature(secret, body, "") {
		t.Fatalf("expected empty signature to fail")
	}
}

func TestLinkBlocked(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		blocked  bool
	}{
		{"unlinked account", "", "U1234", false},
		{"relink from same account", "U1234", "U1234", false},
		{"takeover from another account", "U1234", "U9999", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := linkBlocked(tc.existing, tc.incoming); got != tc.blocked {
				t.Fatalf("linkBlocked(%q, %q) = %v, expected %v",
					tc.existing, tc.incoming, got, tc.blocked)
			}
		})
	}
}
