package storage

import "testing"

func TestObjectKeyFromURL(t *testing.T) {
	s := &S3Client{bucket: "tryrack", publicURL: "https://s3.example.com/tryrack"}

	key, err := s.objectKeyFromURL("https://s3.example.com/tryrack/wardrobe/1/item_5_clean.png")
	if err != nil {
		t.Fatalf("objectKeyFromURL: %v", err)
	}
	if key != "wardrobe/1/item_5_clean.png" {
		t.Errorf("unexpected key %q", key)
	}
}

func TestObjectKeyFromURLForeignHost(t *testing.T) {
	s := &S3Client{bucket: "tryrack", publicURL: "https://s3.example.com/tryrack"}

	if _, err := s.objectKeyFromURL("https://elsewhere.example.com/other/key.png"); err == nil {
		t.Error("expected an error for a foreign URL")
	}
}

func TestNewS3ClientRequiresEndpointAndBucket(t *testing.T) {
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("S3_BUCKET", "")

	if _, err := NewS3Client(); err == nil {
		t.Error("expected an error with no endpoint configured")
	}
}
