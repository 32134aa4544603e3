package service

import (
	"errors"
	"testing"
)

type recordingOpener struct {
	opened []string
	err    error
}

func (r *recordingOpener) Open(url string) error {
	r.opened = append(r.opened, url)
	return r.err
}

func TestLinkService(t *testing.T) {
	o := &recordingOpener{}
	svc := NewLinkService(o, "http://localhost:5000/", nil)

	svc.OpenTerms()
	svc.OpenPrivacy()
	if err := svc.OpenVideo("https://youtu.be/abc?si=x"); err != nil {
		t.Fatalf("OpenVideo() error = %v", err)
	}
	if err := svc.OpenVideo("https://example.com"); err == nil {
		t.Error("OpenVideo(non-video) error = nil")
	}

	want := []string{
		"http://localhost:5000/terms",
		"http://localhost:5000/privacy",
		"https://www.youtube.com/watch?v=abc",
	}
	if len(o.opened) != len(want) {
		t.Fatalf("opened = %v, want %v", o.opened, want)
	}
	for i := range want {
		if o.opened[i] != want[i] {
			t.Errorf("opened[%d] = %q, want %q", i, o.opened[i], want[i])
		}
	}
}

func TestLinkService_OpenerError(t *testing.T) {
	svc := NewLinkService(&recordingOpener{err: errors.New("no browser")}, "http://x", nil)
	if err := svc.OpenTerms(); err == nil {
		t.Fatal("OpenTerms() error = nil")
	}
}
