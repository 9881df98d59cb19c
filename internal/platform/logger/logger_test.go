package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"":        Info,
		"WARNING": Warn,
		" error ": Error,
		"nope":    Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLogger_WithAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With(map[string]any{"user_id": "u-1"})

	l.Warn("dose rejected", map[string]any{"amount": -3.0, "err": errors.New("boom"), "": "skipped"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["user_id"] != "u-1" {
		t.Fatalf("expected user_id field, got %#v", ctx)
	}
	if ctx["amount"] != -3.0 {
		t.Fatalf("expected amount field, got %#v", ctx)
	}
	if ctx["err"] != "boom" {
		t.Fatalf("expected err field, got %#v", ctx)
	}
	if _, ok := ctx[""]; ok {
		t.Fatalf("empty key should be dropped")
	}
}
