package names

import "testing"

func TestHyphenate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"count", "count"},
		{"maxValue", "max-value"},
		{"isOpenNow", "is-open-now"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Hyphenate(tt.in); got != tt.want {
			t.Errorf("Hyphenate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPascalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fun-stepper", "FunStepper"},
		{"x-a-b", "XAB"},
		{"my-element2", "MyElement2"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Pascalize(tt.in); got != tt.want {
			t.Errorf("Pascalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateTagName(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr bool
	}{
		{"fun-stepper", false},
		{"x-1", false},
		{"my-élément", false},
		{"", true},
		{"stepper", true},
		{"Fun-stepper", true},
		{"fun-Stepper", true},
		{"1-fun", true},
		{"fun stepper-x", true},
		{"font-face", true},
	}
	for _, tt := range tests {
		err := ValidateTagName(tt.tag)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTagName(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
		}
	}
}
