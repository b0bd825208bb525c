package ai

import (
	"context"
	"fmt"
	"strings"
)

const describeSystemPrompt = `You are a copywriter for a Brazilian gifts and accessories store.
Write a short, warm product description in Brazilian Portuguese for the product the user describes.
- 2 to 3 sentences, no headings, no bullet points
- Mention the brand naturally when one is given
- Do not invent measurements, materials or prices`

// GenerateProductDescription drafts a description for the admin product
// form from whatever fields are already filled in.
func GenerateProductDescription(ctx context.Context, name, brand, category, subtype string) (string, error) {
	var parts []string
	parts = append(parts, fmt.Sprintf("Product: %s", name))
	if brand != "" {
		parts = append(parts, fmt.Sprintf("Brand: %s", brand))
	}
	if category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", category))
	}
	if subtype != "" {
		parts = append(parts, fmt.Sprintf("Subtype: %s", subtype))
	}

	description, err := generateCompletion(ctx, describeSystemPrompt, strings.Join(parts, "\n"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(description), nil
}
