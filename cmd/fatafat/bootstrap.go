package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/fatafat-forecast/internal/config"
	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
)

// #region bootstrap

// loadObservations returns the stored history. An empty store is seeded
// from the history file when one exists, else with sample draws when
// sampling is enabled.
func loadObservations(store *history.Store, c config.Config, now time.Time, log *zap.Logger) ([]history.Observation, error) {
	obs, err := store.Load()
	if err == nil {
		return obs, nil
	}
	if !errors.Is(err, history.ErrNoHistory) {
		return nil, err
	}

	switch {
	case c.Storage.HistoryFile != "" && fileExists(c.Storage.HistoryFile):
		obs, err = history.LoadJSON(c.Storage.HistoryFile)
		if err != nil {
			return nil, err
		}
		log.Info("seeding store from history file",
			zap.String("path", c.Storage.HistoryFile), zap.Int("observations", len(obs)))
	case c.Sample.Days > 0:
		obs = sampleHistory(c, now)
		log.Info("seeding store with sample history",
			zap.Int("days", c.Sample.Days), zap.Int("observations", len(obs)))
	default:
		return nil, err
	}

	if err := store.ReplaceAll(obs); err != nil {
		return nil, err
	}
	return obs, nil
}

func sampleHistory(c config.Config, now time.Time) []history.Observation {
	rng := rand.New(rand.NewPCG(c.Sample.Seed, c.Sample.Seed^0x9e3779b97f4a7c15))
	return history.GenerateSample(c.Sample.Days, now, rng)
}

// openPredictor opens the store, loads or seeds the history and wires a
// predictor over it. The caller closes the store.
func openPredictor(c config.Config, log *zap.Logger) (*predictor.Predictor, *history.Store, error) {
	store, err := history.NewStore(c.Storage.DBPath)
	if err != nil {
		return nil, nil, err
	}
	pc, err := c.PredictorConfig()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	obs, err := loadObservations(store, c, time.Now().In(pc.Location), log)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	h, err := history.New(obs...)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	p, err := predictor.New(h, store, pc, log)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return p, store, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// #endregion bootstrap
