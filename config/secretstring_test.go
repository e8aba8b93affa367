package config

import (
	"encoding/json"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"
)

func TestSecretString_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input SecretString
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "null",
		},
		{
			name:  "non-empty string",
			input: "my-secret-password",
			want:  `"` + SecretStringValue + `"`,
		},
		{
			name:  "short string",
			input: "x",
			want:  `"` + SecretStringValue + `"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSecretString_MarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input SecretString
		want  any
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "non-empty string",
			input: "my-secret-api-key",
			want:  SecretStringValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.MarshalYAML()
			if err != nil {
				t.Fatalf("MarshalYAML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MarshalYAML() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSecretString_StorageConfig_NoLeakage(t *testing.T) {
	cfg := StorageConfig{
		Bucket:          "bucket",
		Region:          "us-east-1",
		AccessKeyID:     "AKIA-REAL-KEY",
		SecretAccessKey: "real-secret-value",
		URLTTLMinutes:   15,
	}

	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(jsonBytes), "AKIA-REAL-KEY") || strings.Contains(string(jsonBytes), "real-secret-value") {
		t.Error("Secret leaked in JSON marshaling")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if strings.Contains(string(yamlBytes), "AKIA-REAL-KEY") || strings.Contains(string(yamlBytes), "real-secret-value") {
		t.Error("Secret leaked in YAML marshaling")
	}
	if !strings.Contains(string(yamlBytes), SecretStringValue) {
		t.Error("Expected secret placeholder in YAML output")
	}
}

func TestSecretString_TypeConversion(t *testing.T) {
	// Test that we can convert to/from string
	original := "my-secret"
	secret := SecretString(original)

	// When used as string, it should be the original value
	asString := string(secret)
	if asString != original {
		t.Errorf("string(secret) = %s, want %s", asString, original)
	}

	// But when marshaled, it should be hidden
	jsonBytes, _ := json.Marshal(secret)
	if strings.Contains(string(jsonBytes), original) {
		t.Error("Secret visible in JSON output")
	}
}
