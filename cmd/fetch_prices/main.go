// One-shot fetch of the dynamic tariffs, printed as a table. Useful for
// checking the upstream API without starting the service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/angas/essentwatch-go/essent"
	"github.com/angas/essentwatch-go/hours"
	"github.com/angas/essentwatch-go/types"
	"github.com/lmittmann/tint"
)

func main() {
	baseUrl := flag.String("url", "", "override the tariff endpoint")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}))

	opts := []essent.Option{}
	if *baseUrl != "" {
		opts = append(opts, essent.WithBaseURL(*baseUrl))
	}
	client := essent.New(&http.Client{Timeout: *timeout}, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	prices, err := client.GetPrices(ctx)
	if err != nil {
		logger.Error("fetching prices failed", slog.Any("error", err))
		os.Exit(1)
	}

	for _, commodity := range types.Commodities() {
		cp := prices.ByCommodity(commodity)
		fmt.Printf("\n%s (%s)\n", commodity, cp.Unit)
		if cp.IsEmpty() {
			fmt.Println("  no tariffs")
			continue
		}
		for _, p := range cp.Prices {
			fmt.Printf("  %s - %s  %.5f\n",
				hours.FormatLocal(p.Start), hours.FormatLocal(p.End), p.Price)
		}
		fmt.Printf("  min %.5f  max %.5f  avg %.2f\n",
			cp.MinPrice.ValueOrDefault(0), cp.MaxPrice.ValueOrDefault(0), cp.AvgPrice.ValueOrDefault(0))
	}
}
