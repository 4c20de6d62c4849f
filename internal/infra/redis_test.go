package infra

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "")
	if err != nil || client != nil {
		t.Fatalf("expected nil client for empty url, got %v %v", client, err)
	}

	mr := miniredis.RunT(t)
	client, err = NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("connect miniredis: %v", err)
	}
	defer client.Close()

	if _, err := NewRedisClient(context.Background(), "::not a url::"); err == nil {
		t.Fatalf("expected parse error")
	}
}
