package redis

import (
	"context"
	"testing"
	"time"

	"github.com/vladlyt/mj/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *ConnectOptions)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ConnectOptions) {}, wantErr: false},
		{name: "empty addr", mutate: func(o *ConnectOptions) { o.Addr = "" }, wantErr: true},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			if err := opts.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewGivesUpAfterTimeout(t *testing.T) {
	start := time.Now()
	client, err := New(context.Background(), validOptions(), logger.NewNop())
	if err == nil {
		_ = client.Close()
		t.Fatal("New() against a closed port should fail")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, should stop near ConnectTimeout", elapsed)
	}
}
