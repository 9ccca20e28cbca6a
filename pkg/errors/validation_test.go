package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"block", "bk1", false},
		{"terminal", "VSS", false},
		{"bookshelf node", "o211447", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"space", "bk 1", true},
		{"tab", "bk\t1", true},
		{"control char", "bk\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUploadFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"block file", "ami33.block", false},
		{"nets file", "ami33.nets", false},
		{"pl file", "adaptec1.gp.pl", false},

		{"empty", "", true},
		{"slash", "dir/ami33.block", true},
		{"backslash", "dir\\ami33.block", true},
		{"traversal", "..ami33", true},
		{"null", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploadFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUploadFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means derived", "", false},
		{"file", "out/ami33.svg", false},
		{"base", "out/ami33", false},
		{"directory", "out/", true},
		{"null", "a\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
