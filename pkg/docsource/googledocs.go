package docsource

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"tg-content-bot/internal/pkg/logger"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// GoogleDocsSource reads the content document through the Docs API and
// renders each paragraph to one marker line: heading paragraphs become
// "HN:<plain title>", everything else becomes a body line with inline
// styling preserved as Telegram-safe HTML.
type GoogleDocsSource struct {
	credentialsJSON []byte
	log             logger.ILogger
}

// NewGoogleDocsSource takes the base64-encoded service account JSON, as it
// is stored in the environment.
func NewGoogleDocsSource(credentialsBase64 string, log logger.ILogger) (*GoogleDocsSource, error) {
	creds, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("decode service account credentials: %w", err)
	}
	return &GoogleDocsSource{
		credentialsJSON: creds,
		log:             log,
	}, nil
}

var headingStyles = map[string]string{
	"HEADING_1": "H1:",
	"HEADING_2": "H2:",
	"HEADING_3": "H3:",
	"HEADING_4": "H4:",
}

func (s *GoogleDocsSource) Fetch(ctx context.Context, docID string) (string, string, error) {
	start := time.Now()

	svc, err := docs.NewService(ctx,
		option.WithCredentialsJSON(s.credentialsJSON),
		option.WithScopes(docs.DocumentsReadonlyScope),
	)
	if err != nil {
		return "", "", fmt.Errorf("build docs service: %w", err)
	}

	document, err := svc.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("fetch document %s: %w", docID, err)
	}

	var lines []string
	headingCount := 0
	if document.Body != nil {
		for _, elem := range document.Body.Content {
			para := elem.Paragraph
			if para == nil {
				continue
			}

			prefix := ""
			if para.ParagraphStyle != nil {
				prefix = headingStyles[para.ParagraphStyle.NamedStyleType]
			}

			line := strings.TrimRight(elementsToHTML(para.Elements), " \t\r\n")
			if line == "" {
				continue
			}

			if prefix != "" {
				lines = append(lines, prefix+stripTags(line))
				headingCount++
			} else {
				lines = append(lines, line)
			}
		}
	}

	s.log.Debug("docsource", "Document fetched", map[string]interface{}{
		"doc_id":   docID,
		"lines":    len(lines),
		"headings": headingCount,
		"took":     time.Since(start).String(),
	})

	return strings.Join(lines, "\n"), document.RevisionId, nil
}

// elementsToHTML renders a paragraph's text runs to Telegram-safe HTML.
func elementsToHTML(elems []*docs.ParagraphElement) string {
	var b strings.Builder
	for _, el := range elems {
		if el.TextRun != nil {
			b.WriteString(runToHTML(el.TextRun))
		}
	}
	return b.String()
}

func runToHTML(run *docs.TextRun) string {
	txt := html.EscapeString(run.Content)
	style := run.TextStyle
	if style == nil {
		return txt
	}

	if style.Bold {
		txt = "<b>" + txt + "</b>"
	}
	if style.Italic {
		txt = "<i>" + txt + "</i>"
	}
	if style.Underline {
		txt = "<u>" + txt + "</u>"
	}
	if style.Strikethrough {
		txt = "<s>" + txt + "</s>"
	}
	if style.Link != nil && style.Link.Url != "" {
		txt = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(style.Link.Url), txt)
	}
	return txt
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripTags reduces a rendered heading line back to plain text: markers
// carry titles only, never markup.
func stripTags(line string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(line, "")))
}
