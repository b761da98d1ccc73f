package template

import (
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		store    map[string]any
		expected string
		wantErr  bool
	}{
		{
			name:     "simple variable substitution",
			template: "prettier --write {{output}}",
			store:    map[string]any{"output": "Slide.jsx"},
			expected: "prettier --write Slide.jsx",
		},
		{
			name:     "multiple variables",
			template: "{{input}} -> {{output}}",
			store:    map[string]any{"input": "slide.json", "output": "Slide.jsx"},
			expected: "slide.json -> Slide.jsx",
		},
		{
			name:     "dot notation for nested maps",
			template: "Home directory: {{env.HOME}}",
			store: map[string]any{
				"env": map[string]any{"HOME": "/home/user"},
			},
			expected: "Home directory: /home/user",
		},
		{
			name:     "map[string]string access",
			template: "Path: {{env.PATH}}",
			store: map[string]any{
				"env": map[string]string{"PATH": "/usr/bin"},
			},
			expected: "Path: /usr/bin",
		},
		{
			name:     "integer values",
			template: "Count: {{count}}",
			store:    map[string]any{"count": 42},
			expected: "Count: 42",
		},
		{
			name:     "boolean values",
			template: "Enabled: {{enabled}}",
			store:    map[string]any{"enabled": true},
			expected: "Enabled: true",
		},
		{
			name:     "no variables to expand",
			template: "No variables here",
			store:    map[string]any{"unused": "value"},
			expected: "No variables here",
		},
		{
			name:     "variable with spaces",
			template: "{{ name }}",
			store:    map[string]any{"name": "value"},
			expected: "value",
		},
		{
			name:     "CEL ternary operator",
			template: `{{css == "" ? output : output + " " + css}}`,
			store:    map[string]any{"css": "", "output": "Slide.jsx"},
			expected: "Slide.jsx",
		},
		{
			name:     "CEL string concatenation",
			template: `{{prefix + " " + suffix}}`,
			store:    map[string]any{"prefix": "Hello", "suffix": "World"},
			expected: "Hello World",
		},
		{
			name:     "CEL string functions",
			template: "{{name.size()}}",
			store:    map[string]any{"name": "test"},
			expected: "4",
		},
		{
			name:     "undefined variable",
			template: "{{undefined}}",
			store:    map[string]any{"other": "value"},
			wantErr:  true,
		},
		{
			name:     "invalid CEL expression",
			template: "{{output == }}",
			store:    map[string]any{"output": "Slide.jsx"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Expand(tt.template, tt.store)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expand() expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Expand() unexpected error: %v", err)
				return
			}

			if result != tt.expected {
				t.Errorf("Expand() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestEvalBool(t *testing.T) {
	item := map[string]any{
		"slideItemType": "AutoShape",
		"autoShapeType": "RightArrow",
		"width":         100.0,
	}
	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{"equality", `item.autoShapeType == "RightArrow"`, true, false},
		{"inequality", `item.slideItemType == "Chart"`, false, false},
		{"numeric comparison", `item.width > 50.0`, true, false},
		{"index", `index == 3`, true, false},
		{"not bool", `item.autoShapeType`, false, true},
		{"syntax error", `item.width >`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalBool(tt.expr, map[string]any{"item": item, "index": 3})
			if tt.wantErr {
				if err == nil {
					t.Error("EvalBool() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("EvalBool() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateCELEnv(t *testing.T) {
	store := map[string]any{
		"simple":  "value",
		"number":  42,
		"boolean": true,
		"env": map[string]string{
			"HOME": "/home/user",
		},
	}

	env, err := createCELEnv(store)
	if err != nil {
		t.Fatalf("createCELEnv() error = %v", err)
	}

	_, issues := env.Compile(`simple + " test"`)
	if issues != nil && issues.Err() != nil {
		t.Errorf("Failed to compile expression: %v", issues.Err())
	}
}

func TestEnvironToMap(t *testing.T) {
	t.Setenv("SLIDEJSX_TEMPLATE_TEST", "a=b")
	env := EnvironToMap()
	if got := env["SLIDEJSX_TEMPLATE_TEST"]; got != "a=b" {
		t.Errorf("EnvironToMap()[SLIDEJSX_TEMPLATE_TEST] = %q, want %q", got, "a=b")
	}
}
