package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/memo-backend/internal/app"
	"github.com/yungbote/memo-backend/internal/services"
)

//go:embed seeds.yaml
var defaultSeeds []byte

func main() {
	var file string
	var workers int
	flag.StringVar(&file, "file", "", "competency seed file (defaults to the embedded list)")
	flag.IntVar(&workers, "workers", 4, "concurrent inserts")
	flag.Parse()

	raw := defaultSeeds
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("read seed file: %v\n", err)
			os.Exit(1)
		}
		raw = b
	}
	seeds, err := services.ParseSeedFile(raw)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}

	application.Log.Info("starting competency seed", "count", len(seeds.Competencies))
	created, err := services.SeedCompetencies(ctx, application.Services.Competencies, application.Log, seeds.Competencies, workers)
	if err != nil {
		application.Log.Error("seed failed", "created", created, "error", err)
		application.Close()
		os.Exit(1)
	}
	application.Log.Info("seeding complete", "created", created)
	application.Close()
}
