package service

import (
	"context"
	"mattressfit/internal/cache"
	"mattressfit/internal/fault"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestContentService(t *testing.T, repo *fakeContentRepo) *ContentService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewContentService(repo, cache.NewContentCache(client), discardLogger())
}

func TestDefaultContent(t *testing.T) {
	content, err := DefaultContent()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"hero", "contacts", "factories", "seo"} {
		if _, ok := content[key]; !ok {
			t.Errorf("default content has no %q", key)
		}
	}
}

func TestContentGetAllMergesOverrides(t *testing.T) {
	repo := newFakeContentRepo()
	repo.items["hero"] = map[string]any{"title": "Новий заголовок"}
	svc := newTestContentService(t, repo)

	content, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	hero, ok := content["hero"].(map[string]any)
	if !ok || hero["title"] != "Новий заголовок" {
		t.Fatalf("hero = %#v", content["hero"])
	}
	if _, ok := hero["subtitle"]; ok {
		t.Fatal("override must replace the whole key")
	}
	if _, ok := content["seo"]; !ok {
		t.Fatal("defaults missing from merged content")
	}
}

func TestContentGetAllServesDefaultsWhenStoreFails(t *testing.T) {
	repo := newFakeContentRepo()
	repo.getErr = errStoreDown
	svc := newTestContentService(t, repo)

	content, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := content["hero"]; !ok {
		t.Fatal("defaults not served")
	}
}

func TestContentSetInvalidatesCache(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newTestContentService(t, repo)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	if _, err := svc.GetAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.Set(ctx, "cta", "Підібрати матрац"); err != nil {
		t.Fatal(err)
	}
	content, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if content["cta"] != "Підібрати матрац" {
		t.Fatalf("cta = %#v, cache not invalidated", content["cta"])
	}
	if got := b.types(); len(got) != 1 || got[0] != EventContentUpdated {
		t.Fatalf("events = %v", got)
	}
}

func TestContentSetValidation(t *testing.T) {
	svc := newTestContentService(t, newFakeContentRepo())
	ctx := context.Background()

	if err := svc.Set(ctx, "  ", "x"); !fault.IsClientError(err) {
		t.Fatalf("empty key: %v", err)
	}
	if err := svc.SetMany(ctx, nil); !fault.IsClientError(err) {
		t.Fatalf("empty batch: %v", err)
	}
	if err := svc.SetMany(ctx, map[string]any{"video": "x", "footer": "y"}); err != nil {
		t.Fatal(err)
	}
	if n, _ := svc.Count(ctx); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}
