package httpx

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

type samplePayload struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	var p samplePayload
	if err := DecodeJSON(strings.NewReader(`{"name":"Meridian"}`), &p); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if p.Name != "Meridian" {
		t.Fatalf("name = %q, want Meridian", p.Name)
	}
}

func TestDecodeJSONUnknownField(t *testing.T) {
	var p samplePayload
	err := DecodeJSON(strings.NewReader(`{"name":"x","surprise":true}`), &p)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDecodeJSONTrailingData(t *testing.T) {
	var p samplePayload
	err := DecodeJSON(strings.NewReader(`{"name":"x"}{"name":"y"}`), &p)
	if !errors.Is(err, ErrTrailingData) {
		t.Fatalf("err = %v, want ErrTrailingData", err)
	}
}

func TestDecodeJSONBodyTooLarge(t *testing.T) {
	big := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	var p samplePayload
	err := DecodeJSON(strings.NewReader(big), &p)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int64
		wantOffset int64
		wantErr    bool
	}{
		{name: "defaults", query: "", wantLimit: 20, wantOffset: 0},
		{name: "explicit", query: "limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "clamped to max", query: "limit=500", wantLimit: 100},
		{name: "zero limit", query: "limit=0", wantErr: true},
		{name: "negative offset", query: "offset=-1", wantErr: true},
		{name: "garbage limit", query: "limit=abc", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			limit, offset, err := ParseLimitOffset(values, 20, 100)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Fatalf("limit,offset = %d,%d; want %d,%d", limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}
