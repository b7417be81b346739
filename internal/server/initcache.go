package server

import (
	"context"
	"log"
	"sync"

	"recordwizard/internal/predict"
	"recordwizard/internal/wizard"
)

// InitCache serves init data (messages and trigger phrases) from a
// process-wide cache so that every new session does not hit the remote
// API. The cached payload is replaced wholesale on refresh. Prediction
// calls pass straight through.
type InitCache struct {
	client wizard.PredictionClient
	logger *log.Logger

	mu   sync.RWMutex
	data *predict.InitData
}

func NewInitCache(client wizard.PredictionClient, logger *log.Logger) *InitCache {
	if logger == nil {
		logger = log.New(log.Writer(), "[INIT] ", log.LstdFlags)
	}
	return &InitCache{client: client, logger: logger}
}

func (ic *InitCache) FetchInitData(ctx context.Context) (*predict.InitData, error) {
	ic.mu.RLock()
	data := ic.data
	ic.mu.RUnlock()
	if data != nil {
		return data, nil
	}
	return ic.refresh(ctx)
}

func (ic *InitCache) FetchPredictions(ctx context.Context, query string) (*predict.PredictionsResponse, error) {
	return ic.client.FetchPredictions(ctx, query)
}

// Refresh re-fetches init data, keeping the old payload on failure.
func (ic *InitCache) Refresh(ctx context.Context) error {
	_, err := ic.refresh(ctx)
	return err
}

func (ic *InitCache) refresh(ctx context.Context) (*predict.InitData, error) {
	data, err := ic.client.FetchInitData(ctx)
	if err != nil {
		metricInitRefreshes.WithLabelValues("error").Inc()
		return nil, err
	}
	ic.mu.Lock()
	ic.data = data
	ic.mu.Unlock()
	metricInitRefreshes.WithLabelValues("ok").Inc()
	return data, nil
}
