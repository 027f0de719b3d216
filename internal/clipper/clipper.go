// Package clipper imports recipes from web pages.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ukemeny/internal/recipe"
	"ukemeny/internal/shared"
)

// DefaultUnit is used for ingredient lines that name no unit.
const DefaultUnit = "stk"

// knownUnits are the unit words recognised after an amount.
var knownUnits = map[string]struct{}{
	"g": {}, "gram": {}, "kg": {}, "mg": {},
	"l": {}, "dl": {}, "cl": {}, "ml": {},
	"ss": {}, "ts": {}, "krm": {}, "kopp": {}, "kopper": {},
	"stk": {}, "pk": {}, "pakke": {}, "pakker": {}, "boks": {}, "bokser": {},
	"fedd": {}, "glass": {}, "beger": {}, "pose": {}, "poser": {}, "neve": {}, "never": {},
	"skive": {}, "skiver": {}, "bunt": {}, "klype": {},
	"tbsp": {}, "tsp": {}, "cup": {}, "cups": {}, "oz": {}, "lb": {},
}

// Clipper fetches recipe pages and extracts their ingredient lists.
type Clipper struct {
	client *http.Client
	logger *zap.Logger
}

// NewClipper creates a new Clipper. A nil client gets a 15 second timeout.
func NewClipper(client *http.Client, logger *zap.Logger) *Clipper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Clipper{client: client, logger: logger}
}

// Import fetches url and turns the recipe on it into a save request.
func (c *Clipper) Import(ctx context.Context, url string) (*recipe.SaveRequest, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	title, lines := fromJSONLD(doc)
	if title == "" {
		title = pageTitle(doc)
	}
	if len(lines) == 0 {
		lines = ingredientListItems(doc)
	}
	if title == "" || len(lines) == 0 {
		return nil, fmt.Errorf("%w: no recipe found at %s", shared.ErrValidation, url)
	}

	req := &recipe.SaveRequest{
		Name:        title,
		Description: "Importert fra " + url,
	}
	for _, line := range lines {
		item, ok := ParseIngredientLine(line)
		if !ok {
			c.logger.Debug("skipping ingredient line", zap.String("line", line))
			continue
		}
		req.Items = append(req.Items, item)
	}
	c.logger.Info("recipe imported",
		zap.String("url", url), zap.String("name", req.Name), zap.Int("items", len(req.Items)))
	return req, nil
}

func (c *Clipper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	doc.Find("script:not([type='application/ld+json']), style, nav, footer, iframe, .ads, #ads").Remove()
	return doc, nil
}

type ldRecipe struct {
	Type       any               `json:"@type"`
	Name       string            `json:"name"`
	Ingredient []string          `json:"recipeIngredient"`
	Graph      []json.RawMessage `json:"@graph"`
}

// fromJSONLD reads a schema.org Recipe embedded as JSON-LD, the format most
// recipe sites publish.
func fromJSONLD(doc *goquery.Document) (string, []string) {
	var (
		title string
		lines []string
	)
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, r := range decodeLD([]byte(s.Text())) {
			if isRecipeType(r.Type) && len(r.Ingredient) > 0 {
				title, lines = strings.TrimSpace(r.Name), r.Ingredient
				return false
			}
		}
		return true
	})
	return title, lines
}

func decodeLD(raw []byte) []ldRecipe {
	var many []ldRecipe
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one ldRecipe
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil
	}
	out := []ldRecipe{one}
	for _, node := range one.Graph {
		var r ldRecipe
		if json.Unmarshal(node, &r) == nil {
			out = append(out, r)
		}
	}
	return out
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func ingredientListItems(doc *goquery.Document) []string {
	var lines []string
	doc.Find(`[class*="ingredient"] li, [id*="ingredient"] li, [itemprop="recipeIngredient"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})
	return lines
}

// ParseIngredientLine splits "400 g kjøttdeig" into amount, unit and
// ingredient name. Lines without an amount count as one DefaultUnit.
// Fractions ("1/2") and decimal commas ("2,5") are understood.
func ParseIngredientLine(line string) (recipe.ItemRequest, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return recipe.ItemRequest{}, false
	}

	amount, ok := parseAmount(fields[0])
	if !ok {
		one := decimal.NewFromInt(1)
		return recipe.ItemRequest{IngredientName: strings.Join(fields, " "), Amount: &one, Unit: DefaultUnit}, true
	}
	fields = fields[1:]

	unit := DefaultUnit
	if len(fields) > 1 {
		if _, known := knownUnits[strings.ToLower(strings.TrimSuffix(fields[0], "."))]; known {
			unit = strings.ToLower(strings.TrimSuffix(fields[0], "."))
			fields = fields[1:]
		}
	}
	if len(fields) == 0 {
		return recipe.ItemRequest{}, false
	}
	return recipe.ItemRequest{IngredientName: strings.Join(fields, " "), Amount: &amount, Unit: unit}, true
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	if num, den, found := strings.Cut(s, "/"); found {
		n, err1 := decimal.NewFromString(num)
		d, err2 := decimal.NewFromString(den)
		if err1 != nil || err2 != nil || d.IsZero() {
			return decimal.Decimal{}, false
		}
		return n.DivRound(d, recipe.AmountScale), true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	if d.Exponent() < -recipe.AmountScale {
		d = d.Round(recipe.AmountScale)
	}
	return d, true
}
