package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/exchange-insights/internal/aggregate"
	"github.com/jonathan/exchange-insights/internal/config"
	"github.com/jonathan/exchange-insights/internal/db"
	"github.com/jonathan/exchange-insights/internal/types"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a platform statistics report",
	Long:  `Aggregate all approved submissions and print a platform-wide statistics report to the console.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	accommodations, err := database.ListAccommodations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accommodations: %w", err)
	}
	courses, err := database.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load course exchanges: %w", err)
	}
	experiences, err := database.ListExperiences(ctx)
	if err != nil {
		return fmt.Errorf("failed to load experiences: %w", err)
	}

	report := aggregate.ComputeGlobalStats(accommodations, courses, experiences)
	printGlobalStats(report)
	return nil
}

func printGlobalStats(r types.GlobalStats) {
	sep := strings.Repeat("=", 56)
	thin := strings.Repeat("-", 52)

	fmt.Printf("\n%s\n", sep)
	fmt.Printf("  EXCHANGE INSIGHTS PLATFORM REPORT\n")
	fmt.Printf("%s\n\n", sep)

	fmt.Printf("  Overview\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total submissions : %d\n", r.TotalSubmissions)
	fmt.Printf("  Accommodations    : %d\n", r.Accommodation.Rent.SampleSize)
	fmt.Printf("  Course exchanges  : %d\n", r.Courses.TotalSubmissions)
	fmt.Printf("  Experiences       : %d (%d featured)\n", r.Experiences.Total, r.Experiences.Featured)
	fmt.Println()

	fmt.Printf("  Monthly Rent (EUR)\n")
	fmt.Printf("  %s\n", thin)
	if r.Accommodation.Rent.SampleSize > 0 {
		fmt.Printf("  Average : %s\n", formatCents(int64(r.Accommodation.Rent.Avg)))
		fmt.Printf("  Median  : %s\n", formatCents(int64(r.Accommodation.Rent.Median)))
		fmt.Printf("  Range   : %s - %s\n",
			formatCents(int64(r.Accommodation.Rent.Min)),
			formatCents(int64(r.Accommodation.Rent.Max)))
	} else {
		fmt.Printf("  No rent data available\n")
	}
	fmt.Println()

	if len(r.Accommodation.ByType) > 0 {
		fmt.Printf("  Rent by Accommodation Type\n")
		fmt.Printf("  %s\n", thin)
		for _, bt := range r.Accommodation.ByType {
			fmt.Printf("  %-20s %s (%d)\n", truncate(bt.Name, 20), formatCents(bt.AvgRentCents), bt.Count)
		}
		fmt.Println()
	}

	fmt.Printf("  Course Exchanges\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Avg quality rating    : %.1f / 5\n", r.Courses.AvgQuality)
	fmt.Printf("  Avg ECTS transferred  : %.1f\n", r.Courses.AvgEctsTransferred)
	if len(r.Courses.TopUniversities) > 0 {
		fmt.Printf("  Top host universities :\n")
		for i, u := range r.Courses.TopUniversities {
			if i >= 5 {
				break
			}
			fmt.Printf("    %d. %-36s %d reports\n", i+1, truncate(u.Name, 36), u.Count)
		}
	}
	fmt.Println()

	printCityCounts("Most Popular Cities", thin, r.Rankings.MostPopularCities)

	if len(r.Rankings.MostAffordableCities) > 0 {
		fmt.Printf("  Most Affordable Cities\n")
		fmt.Printf("  %s\n", thin)
		for i, c := range r.Rankings.MostAffordableCities {
			fmt.Printf("  %d. %-28s %s/month\n", i+1,
				truncate(c.City+", "+c.Country, 28), formatCents(c.AvgRentCents))
		}
		fmt.Println()
	}

	if len(r.Rankings.HighestQualityCities) > 0 {
		fmt.Printf("  Highest Rated Cities\n")
		fmt.Printf("  %s\n", thin)
		for i, c := range r.Rankings.HighestQualityCities {
			fmt.Printf("  %d. %-28s %.1f / 5\n", i+1,
				truncate(c.City+", "+c.Country, 28), c.AvgQuality)
		}
		fmt.Println()
	}

	fmt.Printf("%s\n\n", sep)
}

func printCityCounts(title, thin string, cities []types.CityCount) {
	if len(cities) == 0 {
		return
	}
	fmt.Printf("  %s\n", title)
	fmt.Printf("  %s\n", thin)
	for i, c := range cities {
		fmt.Printf("  %d. %-28s %d submissions\n", i+1,
			truncate(c.City+", "+c.Country, 28), c.Count)
	}
	fmt.Println()
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
