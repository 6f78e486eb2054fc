package digest

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

type Video struct {
	URL     string
	Summary string
}

type Data struct {
	Title       string
	Source      string
	SourceURL   string
	Date        string
	Summary     string
	Videos      []Video
	GeneratedAt time.Time

	urls []string
}

type frontmatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Source      string   `yaml:"source"`
	SourceURL   string   `yaml:"source_url,omitempty"`
	VideoCount  int      `yaml:"video_count"`
	Videos      []string `yaml:"videos"`
	GeneratedAt string   `yaml:"generated_at"`
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
}).Parse(digestTpl))

// Render writes d as Markdown with a YAML frontmatter block.
func Render(d Data) (string, error) {
	fm := frontmatter{
		Title:       d.Title,
		Date:        d.Date,
		Source:      d.Source,
		SourceURL:   d.SourceURL,
		VideoCount:  len(d.Videos),
		Videos:      make([]string, 0, len(d.Videos)),
		GeneratedAt: d.GeneratedAt.UTC().Format(time.RFC3339),
	}
	for _, v := range d.Videos {
		fm.Videos = append(fm.Videos, v.URL)
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("digest: frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(head)
	buf.WriteString("---\n\n")
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
