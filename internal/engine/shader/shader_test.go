package shader

import (
	"strings"
	"testing"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		defines map[string]string
		want    string
	}{
		{
			name: "no defines",
			src:  "#version 410 core\nvoid main() {}\n",
			want: "#version 410 core\nvoid main() {}\n",
		},
		{
			name:    "after version",
			src:     "\n#version 410 core\nvoid main() {}\n",
			defines: map[string]string{"USE_ALPHA_MAP": "", "MAX": "4"},
			want:    "#version 410 core\n#define MAX 4\n#define USE_ALPHA_MAP\nvoid main() {}\n",
		},
		{
			name:    "no version",
			src:     "void main() {}\n",
			defines: map[string]string{"A": "1"},
			want:    "#define A 1\nvoid main() {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preprocess(tt.src, tt.defines)
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestPreprocessVersionOnly(t *testing.T) {
	got := Preprocess("#version 410 core", map[string]string{"X": ""})
	if !strings.HasPrefix(got, "#version 410 core\n#define X\n") {
		t.Errorf("got %q", got)
	}
}
