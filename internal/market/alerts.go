package market

import (
	"fmt"
	"strings"
)

const (
	articleAlertTemplateConstant = "%s: %s\nHeadline: %s\nBrief: %s"
	missingTitleConstant         = "No title available"
	missingDescriptionConstant   = "No description available"
	briefRuneLimitConstant       = 200
	truncationSuffixConstant     = "..."
)

// FormatArticleAlert renders the text message for one article about a moving instrument.
func FormatArticleAlert(symbol string, movement Movement, article Article) string {
	headline := strings.TrimSpace(article.Title)
	if len(headline) == 0 {
		headline = missingTitleConstant
	}
	brief := strings.TrimSpace(article.Description)
	if len(brief) == 0 {
		brief = missingDescriptionConstant
	}
	return fmt.Sprintf(articleAlertTemplateConstant, symbol, movement.String(), headline, truncateRunes(brief, briefRuneLimitConstant))
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + truncationSuffixConstant
}
