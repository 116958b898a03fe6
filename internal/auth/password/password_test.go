package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !Verify("correct horse battery staple", encoded) {
		t.Fatal("expected verification to succeed")
	}
	if Verify("wrong secret", encoded) {
		t.Fatal("expected verification to fail for wrong secret")
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!$aGFzaA",
	}
	for _, encoded := range cases {
		if Verify("secret", encoded) {
			t.Fatalf("expected rejection for %q", encoded)
		}
	}
}
