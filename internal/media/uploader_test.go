package media

import (
	"context"
	"strings"
	"testing"
)

func TestIsRemote(t *testing.T) {
	cases := map[string]bool{
		"https://cdn.example.com/a.png": true,
		"http://cdn.example.com/a.png":  true,
		"file:///tmp/a.png":             false,
		"/var/tmp/a.png":                false,
		"":                              false,
	}
	for ref, want := range cases {
		if got := IsRemote(ref); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestStaticUploaderPassThrough(t *testing.T) {
	u := StaticUploader{}
	ctx := context.Background()

	remote := "https://cdn.example.com/receipts/a.jpg"
	got, err := u.Upload(ctx, remote, "transactions")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if got != remote {
		t.Fatalf("expected remote URL to pass through, got %q", got)
	}
}

func TestStaticUploaderMintsURL(t *testing.T) {
	u := StaticUploader{}
	got, err := u.Upload(context.Background(), "file:///tmp/a.jpg", "wallets")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.Contains(got, "/wallets/") || !IsRemote(got) {
		t.Fatalf("expected synthetic hosted URL tagged with folder, got %q", got)
	}
}

func TestUploaderEmptyRef(t *testing.T) {
	u := StaticUploader{}
	got, err := u.Upload(context.Background(), "", "users")
	if err != nil || got != "" {
		t.Fatalf("expected empty ref to be a no-op, got %q, %v", got, err)
	}
}
