package repository

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPlainValue(t *testing.T) {
	in := bson.D{
		{Key: "title", Value: "Підбір матрацу"},
		{Key: "items", Value: bson.A{bson.D{{Key: "name", Value: "a"}}, "b"}},
		{Key: "meta", Value: bson.M{"n": int32(3)}},
	}
	out, err := json.Marshal(plainValue(in))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"items":[{"name":"a"},"b"],"meta":{"n":3},"title":"Підбір матрацу"}`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct{ page, limit, wantPage, wantLimit int }{
		{0, 0, 1, 20},
		{3, 10, 3, 10},
		{2, 500, 2, 100},
	}
	for _, tt := range tests {
		p, l := normalizePage(tt.page, tt.limit)
		if p != tt.wantPage || l != tt.wantLimit {
			t.Errorf("normalizePage(%d, %d) = %d, %d", tt.page, tt.limit, p, l)
		}
	}
}
