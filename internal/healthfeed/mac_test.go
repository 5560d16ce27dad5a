package healthfeed

import "testing"

func TestSignVerify(t *testing.T) {
	payload := []byte(`{"route_id":"svc-a","health_score":0.9}`)
	sig := Sign("secret", payload)
	if !Verify("secret", payload, sig) {
		t.Fatal("signature should verify with the correct secret")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"route_id":"svc-a"}`)
	sig := Sign("secret", payload)
	if Verify("other-secret", payload, sig) {
		t.Fatal("signature should not verify with a different secret")
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"health_score":0.9}`)
	sig := Sign("secret", payload)
	tampered := []byte(`{"health_score":0.1}`)
	if Verify("secret", tampered, sig) {
		t.Fatal("signature should not verify a tampered payload")
	}
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	if Verify("secret", []byte("payload"), "not-hex!") {
		t.Fatal("malformed hex signature should be rejected")
	}
	if Verify("secret", []byte("payload"), "") {
		t.Fatal("empty signature should be rejected")
	}
}

func TestSignDeterministic(t *testing.T) {
	payload := []byte("payload")
	if Sign("secret", payload) != Sign("secret", payload) {
		t.Fatal("signing should be deterministic")
	}
}
