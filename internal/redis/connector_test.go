package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/toolhub/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestConnectOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr string
	}{
		{"valid", func(*ConnectOptions) {}, ""},
		{"missing addr", func(o *ConnectOptions) { o.Addr = "" }, "Addr"},
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }, "ConnectTimeout"},
		{"zero retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }, "RetryInterval"},
		{"cap below interval", func(o *ConnectOptions) { o.MaxWait = time.Millisecond }, "MaxWait"},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }, "PingTimeout"},
		{"negative threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }, "WarnThreshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := opts.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestBackoff_DoublesUpToCap(t *testing.T) {
	b := &backoff{next: time.Second, max: 5 * time.Second}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := b.step(); got != w {
			t.Errorf("step %d = %v, want %v", i, got, w)
		}
	}
}

func TestNew_GivesUpWhenUnreachable(t *testing.T) {
	start := time.Now()
	client, err := New(context.Background(), validOptions(), logger.New("error", false))
	if err == nil {
		t.Fatal("Expected an error for an unreachable address")
	}
	if client != nil {
		t.Error("Expected nil client on failure")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New took %v, expected it to stop near ConnectTimeout", elapsed)
	}
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	opts := validOptions()
	opts.Addr = ""
	if _, err := New(context.Background(), opts, logger.New("error", false)); err == nil {
		t.Fatal("Expected validation error")
	}
}
