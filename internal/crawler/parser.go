package crawler

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Bizzati/ETL-Pipeline/internal/model"
	"github.com/Bizzati/ETL-Pipeline/internal/observability"
)

const (
	productCardSelector = "div.collection-card"
	titleSelector       = "h3.product-title"
	priceSelector       = "span.price, p.price"
)

// Parse errors for mandatory card fields. A card missing either is dropped.
var (
	ErrMissingTitle = errors.New("product card missing title")
	ErrMissingPrice = errors.New("product card missing price")
)

var colorsCountPattern = regexp.MustCompile(`\d+`)

// fieldRule matches one optional "label: value" paragraph on a product card.
// Each rule is independent: a card missing the label simply leaves the
// target field nil.
type fieldRule struct {
	label   string
	extract func(string) (string, bool)
	assign  func(*model.RawRecord, string)
}

var optionalFieldRules = []fieldRule{
	{
		label:  "Rating",
		assign: func(r *model.RawRecord, v string) { r.RatingText = &v },
	},
	{
		label: "Colors",
		extract: func(text string) (string, bool) {
			m := colorsCountPattern.FindString(text)
			return m, m != ""
		},
		assign: func(r *model.RawRecord, v string) { r.ColorsText = &v },
	},
	{
		label:  "Size",
		assign: func(r *model.RawRecord, v string) { r.SizeText = &v },
	},
	{
		label:  "Gender",
		assign: func(r *model.RawRecord, v string) { r.GenderText = &v },
	},
}

// Parser extracts raw product records from catalog page markup.
type Parser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log}
}

// ParsePage returns the records extracted from one page plus the number of
// product cards found. Cards missing a mandatory field are logged and
// skipped without affecting the rest of the page.
func (p *Parser) ParsePage(body, scrapedAt string) ([]model.RawRecord, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, 0, err
	}

	var records []model.RawRecord
	cards := 0

	doc.Find(productCardSelector).Each(func(_ int, card *goquery.Selection) {
		cards++

		rec, err := p.parseCard(card, scrapedAt)
		if err != nil {
			p.log.Warn("skipping product card", "reason", err)
			observability.RecordsSkipped.Inc()
			return
		}

		records = append(records, rec)
	})

	return records, cards, nil
}

func (p *Parser) parseCard(card *goquery.Selection, scrapedAt string) (model.RawRecord, error) {
	rec := model.RawRecord{ScrapedAt: scrapedAt}

	title := card.Find(titleSelector).First()
	if title.Length() == 0 {
		return rec, ErrMissingTitle
	}
	rec.Title = strings.TrimSpace(title.Text())

	price := card.Find(priceSelector).First()
	if price.Length() == 0 {
		return rec, ErrMissingPrice
	}
	rec.PriceText = strings.TrimPrefix(strings.TrimSpace(price.Text()), "$")

	for _, rule := range optionalFieldRules {
		text, ok := labeledText(card, rule.label)
		if !ok {
			p.log.Debug("card field not found", "field", rule.label)
			continue
		}
		if rule.extract != nil {
			text, ok = rule.extract(text)
			if !ok {
				p.log.Warn("card field has no usable value", "field", rule.label)
				continue
			}
		}
		rule.assign(&rec, text)
	}

	return rec, nil
}

// labeledText finds the first paragraph on the card containing the label.
func labeledText(card *goquery.Selection, label string) (string, bool) {
	var out string
	found := false

	card.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if strings.Contains(t, label) {
			out = t
			found = true
			return false
		}
		return true
	})

	return out, found
}
