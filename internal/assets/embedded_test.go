package assets_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/avrile/go-mdexport/internal/assets"
)

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := assets.NewEmbeddedLoader()

	tests := []struct {
		name      string
		styleName string
		wantErr   error
		contains  string
	}{
		{
			name:      "base style exists",
			styleName: "base",
			contains:  "--doc-body-color",
		},
		{
			name:      "print style exists",
			styleName: "print",
			contains:  "page-break",
		},
		{
			name:      "word style exists",
			styleName: "word",
			contains:  "mso-",
		},
		{
			name:      "ebook style exists",
			styleName: "ebook",
			contains:  "line-height",
		},
		{
			name:      "slides style exists",
			styleName: "slides",
			contains:  ".slide",
		},
		{
			name:      "unknown style",
			styleName: "nonexistent",
			wantErr:   assets.ErrStyleNotFound,
		},
		{
			name:      "invalid name",
			styleName: "../escape",
			wantErr:   assets.ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := loader.LoadStyle(tt.styleName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.styleName, err)
			}
			if !strings.Contains(content, tt.contains) {
				t.Errorf("LoadStyle(%q) missing %q", tt.styleName, tt.contains)
			}
		})
	}
}

func TestEmbeddedLoader_LoadScript(t *testing.T) {
	t.Parallel()

	loader := assets.NewEmbeddedLoader()

	tests := []struct {
		name       string
		scriptName string
		wantErr    error
		contains   string
	}{
		{
			name:       "slides navigation exists",
			scriptName: "slides-nav",
			contains:   "ArrowRight",
		},
		{
			name:       "watermark guard exists",
			scriptName: "watermark-guard",
			contains:   "MutationObserver",
		},
		{
			name:       "unknown script",
			scriptName: "nonexistent",
			wantErr:    assets.ErrScriptNotFound,
		},
		{
			name:       "invalid name",
			scriptName: "dir/escape",
			wantErr:    assets.ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, err := loader.LoadScript(tt.scriptName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadScript(%q) error = %v, want %v", tt.scriptName, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadScript(%q) unexpected error: %v", tt.scriptName, err)
			}
			if !strings.Contains(content, tt.contains) {
				t.Errorf("LoadScript(%q) missing %q", tt.scriptName, tt.contains)
			}
		})
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	names := assets.StyleNames()
	want := map[string]bool{"base": false, "print": false, "word": false, "ebook": false, "slides": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("StyleNames() missing %q, got %v", n, names)
		}
	}
}

func TestScriptNames(t *testing.T) {
	t.Parallel()

	names := assets.ScriptNames()
	if len(names) < 2 {
		t.Fatalf("ScriptNames() = %v, want at least slides-nav and watermark-guard", names)
	}
}
