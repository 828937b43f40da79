package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

// recorder captures everything forwarded to a set of sinks.
type recorder struct {
	infos  []string
	debugs []string
	errs   []string
	errVal error
}

func (r *recorder) sinks() Sinks {
	return Sinks{
		Info:  func(text string) { r.infos = append(r.infos, text) },
		Debug: func(text string) { r.debugs = append(r.debugs, text) },
		Error: func(text string, err error) {
			r.errs = append(r.errs, text)
			r.errVal = err
		},
	}
}

func TestSinkLoggerForwardsPerLevel(t *testing.T) {
	rec := &recorder{}
	log := New(rec.sinks())
	ctx := context.Background()

	log.Info(ctx, "info line")
	log.Debug(ctx, "debug line")
	wantErr := errors.New("boom")
	log.Error(ctx, "error line", wantErr)

	if len(rec.infos) != 1 || rec.infos[0] != "info line" {
		t.Errorf("info sink got %v, want [info line]", rec.infos)
	}
	if len(rec.debugs) != 1 || rec.debugs[0] != "debug line" {
		t.Errorf("debug sink got %v, want [debug line]", rec.debugs)
	}
	if len(rec.errs) != 1 || rec.errs[0] != "error line" {
		t.Errorf("error sink got %v, want [error line]", rec.errs)
	}
	if rec.errVal != wantErr {
		t.Errorf("error sink got err %v, want %v", rec.errVal, wantErr)
	}
}

func TestSinkLoggerSkipsNilSinks(t *testing.T) {
	log := New(Sinks{})
	ctx := context.Background()

	// Must not panic.
	log.Info(ctx, "a")
	log.Debug(ctx, "b")
	log.Error(ctx, "c", nil)
}

func TestSlogSinks(t *testing.T) {
	var buf bytes.Buffer
	sl := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	log := New(SlogSinks(sl))
	ctx := context.Background()

	log.Error(ctx, "failed", errors.New("disk full"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log JSON: %v", err)
	}
	if entry["msg"] != "failed" {
		t.Errorf("msg = %v, want %q", entry["msg"], "failed")
	}
	if entry["error"] != "disk full" {
		t.Errorf("error = %v, want %q", entry["error"], "disk full")
	}
}

func TestTee(t *testing.T) {
	first := &recorder{}
	second := &recorder{}
	log := New(Tee(first.sinks(), second.sinks()))
	ctx := context.Background()

	log.Info(ctx, "both")
	log.Error(ctx, "err both", errors.New("x"))

	for name, rec := range map[string]*recorder{"first": first, "second": second} {
		if len(rec.infos) != 1 || rec.infos[0] != "both" {
			t.Errorf("%s info sink got %v, want [both]", name, rec.infos)
		}
		if len(rec.errs) != 1 || rec.errs[0] != "err both" {
			t.Errorf("%s error sink got %v, want [err both]", name, rec.errs)
		}
	}
}
