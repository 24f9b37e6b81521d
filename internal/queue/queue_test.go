package queue

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestNewSource(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	tests := []struct {
		name    string
		client  *redis.Client
		key     string
		wantErr bool
	}{
		{
			name:    "valid source",
			client:  client,
			key:     DefaultEventsKey,
			wantErr: false,
		},
		{
			name:    "nil client",
			client:  nil,
			key:     DefaultEventsKey,
			wantErr: true,
		},
		{
			name:    "empty key",
			client:  client,
			key:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := NewSource(tt.client, tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSource() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && source == nil {
				t.Error("NewSource() returned nil source without error")
			}
		})
	}
}
