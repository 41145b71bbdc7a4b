package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/cache"
	"vacation_planner_backend/platform/config"
	"vacation_planner_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	refLat := flag.Float64("ref-lat", 0, "reference latitude for distance and travel time")
	refLon := flag.Float64("ref-lon", 0, "reference longitude for distance and travel time")
	speed := flag.Float64("speed", geo.DefaultAverageSpeedMPH, "average speed in mph")
	limit := flag.Int("limit", 1, "candidates to print per address")
	pause := flag.Duration("pause", time.Second, "pause between addresses")
	flag.Parse()

	if err := validateFlags(*limit, *pause); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.NewFromConfig(cfg.Env, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.IsCacheEnabled() {
		rdb, err = cache.NewClient(ctx, cfg)
		if err != nil {
			log.Warn("redis unavailable; geocoding without cache", "error", err)
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	svc, err := maps.NewServiceFromConfig(cfg, cfg, rdb, log)
	if err != nil {
		log.Error("failed to build geocoding service", "error", err)
		os.Exit(1)
	}

	var ref *geo.Point
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "ref-lat" || f.Name == "ref-lon" {
			ref = &geo.Point{Lat: *refLat, Lon: *refLon}
		}
	})

	addresses := flag.Args()
	if len(addresses) == 0 {
		addresses, err = readLines(os.Stdin)
		if err != nil {
			log.Error("failed to read addresses", "error", err)
			os.Exit(1)
		}
	}

	failed := 0
	for i, address := range addresses {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && !sleepCtx(ctx, *pause) {
			break
		}

		results, err := svc.SearchAddress(ctx, address)
		if err != nil {
			log.Error("geocode failed", "address", address, "error", err)
			failed++
			continue
		}
		if len(results) == 0 {
			log.Info("no geocode result", "address", address)
			continue
		}

		for _, addr := range firstN(results, *limit) {
			printAddress(os.Stdout, addr, ref, *speed)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func validateFlags(limit int, pause time.Duration) error {
	if limit < 1 {
		return fmt.Errorf("-limit must be at least 1, got %d", limit)
	}
	if pause < 0 {
		return fmt.Errorf("-pause must not be negative, got %s", pause)
	}
	return nil
}

// sleepCtx waits for d and reports false when ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func firstN(results []maps.NormalizedAddress, n int) []maps.NormalizedAddress {
	if n < 0 {
		n = 0
	}
	if len(results) > n {
		return results[:n]
	}
	return results
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func printAddress(w io.Writer, addr maps.NormalizedAddress, ref *geo.Point, speed float64) {
	fmt.Fprintln(w, addr.FullAddress)
	values := addr.Values()
	for _, key := range []string{
		maps.FieldAddressLine1,
		maps.FieldCity,
		maps.FieldState,
		maps.FieldZipCode,
		maps.FieldLatitude,
		maps.FieldLongitude,
	} {
		fmt.Fprintf(w, "  %-14s %s\n", key, values[key])
	}
	if ref != nil {
		est := geo.Estimate(*ref, addr.Point(), speed)
		fmt.Fprintf(w, "  %-14s %.2f mi\n", "distance", est.DistanceMiles)
		fmt.Fprintf(w, "  %-14s %s\n", "travel_time", geo.FormatTravelTime(est.TravelMinutes))
	}
}
