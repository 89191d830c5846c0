// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package article

import (
	"fmt"
	"strings"

	"copyforge/internal/models"
)

func draftSystemPrompt(client *models.Client, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a senior content writer producing marketing articles in %s.
The company's mission: %q.
The target audience: %q.
`, language, client.Mission, client.TargetAudience)
	if client.CTA != "" {
		fmt.Fprintf(&b, "Close the article with this call to action, rephrased naturally: %q.\n", client.CTA)
	}
	b.WriteString(`
Write a complete, informative article on the given topic.

Rules:
- Output valid HTML body markup only: exactly one <h1> with the article
  title, then <h2>/<h3> sections with <p> paragraphs and <ul>/<ol> lists
  where they help.
- 700 to 1000 words, concrete and practical, no filler.
- No <html>, <head> or <body> wrapper, no markdown, no commentary.`)
	return b.String()
}

func draftUserPrompt(topic string) string {
	return fmt.Sprintf("Topic: %s", topic)
}

func translateSystemPrompt(language string) string {
	return fmt.Sprintf(`You are a professional translator. Translate the given HTML article
into %s.

Rules:
- Preserve every HTML tag and attribute exactly; translate only the text.
- Keep proper nouns, brand names, URLs and numbers unchanged.
- Output the translated HTML only, no commentary.`, language)
}

const chartSystemPrompt = `You extract chartable data from article text. Produce a small dataset
that visualizes a quantitative point the article makes, inventing
plausible figures when the text gives none.

Output a single JSON object, nothing else:
{"title": string, "labels": [4-8 strings], "values": [matching numbers], "unit": string}`
