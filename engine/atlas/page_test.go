package atlas

import (
	"strings"
	"testing"
)

const legacyAtlas = `
hero.png
size: 512,256
format: RGBA8888
filter: Linear,MipMapLinearLinear
repeat: none
head
  rotate: false
  xy: 2, 2
  size: 100, 120
  orig: 100, 120
  offset: 0, 0
  index: -1

hero2.png
size: 64, 64
format: RGBA8888
filter: Nearest,Nearest
repeat: xy
arm
  rotate: true
  xy: 0, 0
`

const modernAtlas = `skeleton.png
size:1024,1024
filter:Linear,Linear
pma:true
region1
bounds:2,2,100,100
region2
bounds:104,2,20,20
`

func TestParsePages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Page
	}{
		{
			name:  "legacy",
			input: legacyAtlas,
			want: []Page{
				{Name: "hero.png", Width: 512, Height: 256, Format: "RGBA8888", MinFilter: "Linear", MagFilter: "MipMapLinearLinear"},
				{Name: "hero2.png", Width: 64, Height: 64, Format: "RGBA8888", MinFilter: "Nearest", MagFilter: "Nearest", RepeatX: true, RepeatY: true},
			},
		},
		{
			name:  "modern",
			input: modernAtlas,
			want: []Page{
				{Name: "skeleton.png", Width: 1024, Height: 1024, MinFilter: "Linear", MagFilter: "Linear", PremultipliedAlpha: true},
			},
		},
		{
			name:  "empty",
			input: "\n\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePages(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParsePages: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d pages, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("page %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParsePagesIgnoresRegionSize(t *testing.T) {
	pages, err := ParsePages(strings.NewReader(legacyAtlas))
	if err != nil {
		t.Fatalf("ParsePages: %v", err)
	}
	if pages[0].Width != 512 || pages[0].Height != 256 {
		t.Fatalf("region size leaked into page header: %+v", pages[0])
	}
}

func TestParsePagesRejectsBadSize(t *testing.T) {
	_, err := ParsePages(strings.NewReader("page.png\nsize: wide\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed size line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the line", err)
	}
}
