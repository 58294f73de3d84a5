package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

var pairSchema = &Schema{
	Name: "test-pair",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{"type": "string"},
			"answer": map[string]any{"type": "integer"},
		},
		"required":             []string{"prompt", "answer"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"prompt":"2+2","answer":4}`, false},
		{"missing field", `{"prompt":"2+2"}`, true},
		{"wrong type", `{"prompt":"2+2","answer":"four"}`, true},
		{"extra field", `{"prompt":"2+2","answer":4,"x":1}`, true},
		{"not json", `prompt: 2+2`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(pairSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var inv *InvalidResponseError
			if err != nil && !errors.As(err, &inv) {
				t.Fatalf("expected InvalidResponseError, got %T", err)
			}
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should accept anything: %v", err)
	}
}

func TestMockValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"prompt":"x"}`)})
	_, err := mock.Generate(context.Background(), Request{Schema: pairSchema})
	var inv *InvalidResponseError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidResponseError, got %v", err)
	}
}

func TestMockEmptyQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	mock.Enqueue(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("after enqueue: %v", err)
	}
	if len(mock.Calls()) != 2 {
		t.Errorf("calls = %d, want 2", len(mock.Calls()))
	}
}
