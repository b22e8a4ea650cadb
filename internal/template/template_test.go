package template

import (
	"errors"
	"testing"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

func testConfig() domain.ContentConfig {
	return domain.ContentConfig{
		WhatsappTemplates: map[string]domain.TemplateVariant{
			"icebreaker": {
				Singular: "Hi {{name}}, you are invited!",
				Plural:   "Hi {{name}}, you are all invited!",
			},
		},
	}
}

func TestPickVariantByPartySize(t *testing.T) {
	tests := []struct {
		name string
		pax  int
		want string
	}{
		{"single guest gets singular", 1, "Hi {{name}}, you are invited!"},
		{"couple gets plural", 2, "Hi {{name}}, you are all invited!"},
		{"large party gets plural", 8, "Hi {{name}}, you are all invited!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pick(testConfig(), "icebreaker", tt.pax)
			if err != nil {
				t.Fatalf("Pick returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Pick = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPickMissingStage(t *testing.T) {
	if _, err := Pick(testConfig(), "nudge", 2); !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("Pick for undefined stage returned %v, want ErrTemplateMissing", err)
	}
	if _, err := Pick(domain.ContentConfig{}, "icebreaker", 1); !errors.Is(err, ErrTemplateMissing) {
		t.Errorf("Pick with no templates map returned %v, want ErrTemplateMissing", err)
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name string
		text string
		vars map[string]string
		want string
	}{
		{
			"replaces known variables",
			"Hi {{name}}, see {{link}}",
			map[string]string{"name": "Dana", "link": "https://x/y"},
			"Hi Dana, see https://x/y",
		},
		{
			"unknown placeholder preserved verbatim",
			"hi {{unknown}}",
			map[string]string{"name": "Dana"},
			"hi {{unknown}}",
		},
		{
			"repeated placeholder replaced everywhere",
			"{{name}} and {{name}}",
			map[string]string{"name": "Dana"},
			"Dana and Dana",
		},
		{
			"empty value still counts as resolved",
			"to {{waze_link}}",
			map[string]string{"waze_link": ""},
			"to ",
		},
		{
			"no placeholders passes through",
			"plain text",
			nil,
			"plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Interpolate(tt.text, tt.vars); got != tt.want {
				t.Errorf("Interpolate = %q, want %q", got, tt.want)
			}
		})
	}
}
