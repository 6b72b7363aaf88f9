package configuration

import (
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("PK_TEST_HOST", "db.internal")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "set variable", input: "host: ${PK_TEST_HOST}", want: "host: db.internal"},
		{name: "set variable ignores default", input: "host: ${PK_TEST_HOST:localhost}", want: "host: db.internal"},
		{name: "unset variable uses default", input: "port: ${PK_TEST_MISSING:5432}", want: "port: 5432"},
		{name: "unset variable without default is empty", input: "pass: ${PK_TEST_MISSING}", want: "pass: "},
		{name: "plain text untouched", input: "name: pawkeeper", want: "name: pawkeeper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.input); got != tt.want {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
