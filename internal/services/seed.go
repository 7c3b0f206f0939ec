package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type SeedFile struct {
	Competencies []CreateCompetencyInput `yaml:"competencies"`
}

func ParseSeedFile(raw []byte) (SeedFile, error) {
	var out SeedFile
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return out, nil
}

// SeedCompetencies creates every entry whose title is not yet taken and
// returns how many were created.
func SeedCompetencies(ctx context.Context, svc CompetencyService, log *logger.Logger, items []CreateCompetencyInput, workers int) (int, error) {
	if workers <= 0 {
		workers = 4
	}
	var created atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range items {
		g.Go(func() error {
			row, isNew, err := svc.EnsureByTitle(gctx, item)
			if err != nil {
				return err
			}
			if isNew {
				created.Add(1)
				log.Info("created competency", "title", row.Title, "competency_id", row.ID)
			} else {
				log.Info("skipping existing competency", "title", row.Title)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}
	return int(created.Load()), nil
}
