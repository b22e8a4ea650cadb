// Package template resolves per-stage WhatsApp message templates from an
// event's content configuration.
package template

import (
	"errors"
	"regexp"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

// ErrTemplateMissing means the stage has no template in content_config.
// Callers skip the affected invitation and keep going.
var ErrTemplateMissing = errors.New("no template defined for stage")

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Pick selects the singular or plural variant of a stage template based on
// party size.
func Pick(cfg domain.ContentConfig, stageName string, pax int) (string, error) {
	variant, ok := cfg.WhatsappTemplates[stageName]
	if !ok {
		return "", ErrTemplateMissing
	}
	if pax == 1 {
		return variant.Singular, nil
	}
	return variant.Plural, nil
}

// Interpolate replaces every {{identifier}} occurrence with its value from
// vars. Unknown identifiers are preserved verbatim so a half-rendered message
// surfaces the literal token instead of an empty gap.
func Interpolate(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := match[2 : len(match)-2]
		if value, ok := vars[key]; ok {
			return value
		}
		return match
	})
}
