package importer

import (
	"context"

	"github.com/Ramsey-B/matcha/pkg/metrics"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/tracing"
)

// RelinkFinding is one shop whose stored brand link no longer clears the
// confidence floor
type RelinkFinding struct {
	ShopID     string  `json:"shop_id"`
	ShopName   string  `json:"shop_name"`
	BrandID    string  `json:"brand_id"`
	BrandName  string  `json:"brand_name"`
	Confidence float64 `json:"confidence"`
}

// RelinkReport summarizes a relink pass
type RelinkReport struct {
	Checked  int             `json:"checked"`
	Cleared  int             `json:"cleared"`
	Findings []RelinkFinding `json:"findings"`
}

// Relink rescores every linked shop against its stored brand and clears the
// links that fall below the confidence floor. Matcher tightenings (new
// aliases, higher thresholds) take effect on old data this way. Dry runs
// report findings without clearing anything.
func (p *Pipeline) Relink(ctx context.Context) (RelinkReport, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Pipeline.Relink")
	defer span.End()

	linked, err := p.shops.ListLinked(ctx)
	if err != nil {
		return RelinkReport{}, err
	}

	report := RelinkReport{}
	brandCache := map[string]*models.Brand{}

	for _, s := range linked {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if s.BrandID == nil {
			continue
		}

		brand, ok := brandCache[*s.BrandID]
		if !ok {
			brand, err = p.brands.GetByID(ctx, *s.BrandID)
			if err != nil {
				return report, err
			}
			brandCache[*s.BrandID] = brand
		}
		if brand == nil {
			p.logger.WithContext(ctx).WithField("brand_id", *s.BrandID).Warn("Linked shop references missing brand")
			continue
		}

		report.Checked++
		confidence := p.matcher.Confidence(s.Name, *brand)
		if confidence >= p.config.MinConfidence {
			continue
		}

		report.Findings = append(report.Findings, RelinkFinding{
			ShopID:     s.ID,
			ShopName:   s.Name,
			BrandID:    brand.ID,
			BrandName:  brand.Name,
			Confidence: confidence,
		})

		if p.config.DryRun {
			continue
		}

		if err := p.shops.ClearBrandLink(ctx, s.ID); err != nil {
			return report, err
		}
		report.Cleared++
		metrics.ImportResultsTotal.WithLabelValues("link_cleared").Inc()
		_ = p.emitter.EmitShopLinkCleared(ctx, s.ID, brand.ID, confidence)
	}

	return report, nil
}
