package storage

import (
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("thumbnails", "shot.PNG")
	if !strings.HasPrefix(key, "thumbnails/") {
		t.Errorf("ObjectKey prefix = %q, want thumbnails/", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("ObjectKey suffix = %q, want .png", key)
	}

	other := ObjectKey("thumbnails", "shot.png")
	if key == other {
		t.Error("ObjectKey should generate distinct keys per call")
	}

	if got := ObjectKey("", "clip.mp4"); !strings.HasPrefix(got, "media/") {
		t.Errorf("ObjectKey with empty kind = %q, want media/ prefix", got)
	}
}

func TestKeyFromURL(t *testing.T) {
	s := &S3Store{baseURL: "https://cdn.example.com"}

	if got := s.KeyFromURL("https://cdn.example.com/videos/abc.mp4"); got != "videos/abc.mp4" {
		t.Errorf("KeyFromURL = %q, want videos/abc.mp4", got)
	}
	if got := s.KeyFromURL("videos/abc.mp4"); got != "videos/abc.mp4" {
		t.Errorf("KeyFromURL bare key = %q, want videos/abc.mp4", got)
	}
	if got := s.KeyFromURL(""); got != "" {
		t.Errorf("KeyFromURL empty = %q, want empty", got)
	}
}
