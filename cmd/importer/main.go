// The importer sweeps Google Places searches over a geographic grid and
// persists confident brand matches. Run with -dry-run first; it reports what
// would be imported without writing anything.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Ramsey-B/matcha/internal/app"
	"github.com/Ramsey-B/matcha/pkg/importer"
	"github.com/Ramsey-B/matcha/pkg/places"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "count decisions without writing anything")
	discovery := flag.Bool("discovery", false, "sweep with a generic query instead of per-brand searches")
	query := flag.String("query", "bubble tea", "search query for discovery sweeps")
	brandFilter := flag.String("brands", "", "comma-separated brand names to import (default: all seeds)")
	radius := flag.Float64("radius-m", 25000, "search radius around each grid point, in meters")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	searcher := places.NewClient(places.Config{
		APIKey:       a.Config.PlacesAPIKey,
		BaseURL:      a.Config.PlacesBaseURL,
		Timeout:      a.Config.PlacesTimeout,
		MaxPages:     a.Config.PlacesMaxPages,
		RequestDelay: a.Config.PlacesRequestDelay,
	}, a.Logger)

	pipeline := importer.NewPipeline(searcher, a.Brands, a.Shops, a.Matcher, a.Emitter, a.Logger, importer.Config{
		MinConfidence:      a.Config.MatchConfidenceThreshold,
		SearchRadiusMeters: *radius,
		PointDelay:         a.Config.PlacesRequestDelay,
		Workers:            a.Config.ImportWorkerCount,
		Country:            "TW",
		DryRun:             *dryRun,
	})

	grid := importer.TaiwanGrid()
	start := time.Now()

	var counts importer.Counts
	if *discovery {
		counts, err = pipeline.RunDiscovery(ctx, grid, *query)
	} else {
		counts, err = pipeline.RunTargeted(ctx, selectSeeds(*brandFilter), grid)
	}
	if err != nil {
		a.Logger.WithContext(ctx).WithError(err).Error("Import failed")
	}

	mode := "import"
	if *dryRun {
		mode = "dry run"
	}
	fmt.Printf("%s finished in %s\n", mode, time.Since(start).Round(time.Second))
	fmt.Printf("  created:        %d\n", counts.Created)
	fmt.Printf("  duplicates:     %d\n", counts.Duplicates)
	fmt.Printf("  low confidence: %d\n", counts.LowConfidence)
	fmt.Printf("  search errors:  %d\n", counts.SearchErrors)

	if err != nil {
		os.Exit(1)
	}
}

// selectSeeds narrows the seed list to the requested brand names
func selectSeeds(filter string) []importer.BrandSeed {
	seeds := importer.TaiwanBrands()
	if filter == "" {
		return seeds
	}

	wanted := map[string]bool{}
	for _, name := range strings.Split(filter, ",") {
		wanted[strings.TrimSpace(name)] = true
	}

	var selected []importer.BrandSeed
	for _, seed := range seeds {
		if wanted[seed.Name] {
			selected = append(selected, seed)
		}
	}
	return selected
}
