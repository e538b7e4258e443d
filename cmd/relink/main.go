// The relink tool rescores every linked shop against its brand and clears
// links that no longer pass the confidence floor. It is a dry run unless
// -apply is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ramsey-B/matcha/internal/app"
	"github.com/Ramsey-B/matcha/pkg/importer"
)

func main() {
	apply := flag.Bool("apply", false, "clear low-confidence links instead of just reporting them")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	pipeline := importer.NewPipeline(nil, a.Brands, a.Shops, a.Matcher, a.Emitter, a.Logger, importer.Config{
		MinConfidence: a.Config.MatchConfidenceThreshold,
		DryRun:        !*apply,
	})

	report, err := pipeline.Relink(ctx)
	if err != nil {
		a.Logger.WithContext(ctx).WithError(err).Error("Relink failed")
	}

	fmt.Printf("checked %d linked shops, %d below threshold, %d cleared\n",
		report.Checked, len(report.Findings), report.Cleared)

	byBrand := map[string][]importer.RelinkFinding{}
	var order []string
	for _, finding := range report.Findings {
		if _, seen := byBrand[finding.BrandName]; !seen {
			order = append(order, finding.BrandName)
		}
		byBrand[finding.BrandName] = append(byBrand[finding.BrandName], finding)
	}
	for _, brandName := range order {
		fmt.Printf("%s:\n", brandName)
		for _, finding := range byBrand[brandName] {
			fmt.Printf("  %s (%s): confidence %.2f\n",
				finding.ShopName, finding.ShopID, finding.Confidence)
		}
	}
	if !*apply && len(report.Findings) > 0 {
		fmt.Println("re-run with -apply to clear these links")
	}

	if err != nil {
		os.Exit(1)
	}
}
