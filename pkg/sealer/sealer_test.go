package sealer

import "testing"

func TestManageTokenRoundTrip(t *testing.T) {
	token, err := CreateManageToken("64f1c0ffee0000000000aaaa", "64f1c0ffee0000000000bbbb")
	if err != nil {
		t.Fatalf("CreateManageToken: %v", err)
	}

	restaurantID, reservationID, err := ParseManageToken(token)
	if err != nil {
		t.Fatalf("ParseManageToken: %v", err)
	}
	if restaurantID != "64f1c0ffee0000000000aaaa" {
		t.Errorf("restaurantID = %q", restaurantID)
	}
	if reservationID != "64f1c0ffee0000000000bbbb" {
		t.Errorf("reservationID = %q", reservationID)
	}
}

func TestManageTokenUniqueness(t *testing.T) {
	// GCM nonces must make identical payloads produce distinct tokens.
	a, err := CreateManageToken("r", "b")
	if err != nil {
		t.Fatal(err)
	}
	b, err := CreateManageToken("r", "b")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two tokens for the same payload are identical")
	}
}

func TestParseManageToken_Invalid(t *testing.T) {
	for _, bad := range []string{"", "not-base64!!", "dG9vc2hvcnQ"} {
		if _, _, err := ParseManageToken(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
