package password

import "testing"

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("Expected hash to differ from password")
	}
	if !CheckPasswordHash("s3cret!", hash) {
		t.Fatal("Expected password to match hash")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("Expected wrong password to be rejected")
	}
}
