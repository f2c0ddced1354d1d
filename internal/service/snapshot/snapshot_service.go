// Package snapshot loads the three published daily datasets and fingerprints
// their raw content. It never touches the dataset store.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain/dto"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/logger"
)

// Sources are the three dataset locations, fetched independently.
type Sources struct {
	NationURL    string
	RegionsURL   string
	ProvincesURL string
}

type Service struct {
	sources  Sources
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	validate *validator.Validate
}

func NewService(sources Sources) *Service {
	return &Service{
		sources: sources,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "snapshot-sources",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		validate: validator.New(),
	}
}

// Load fetches the three datasets in parallel, fingerprints their raw bytes
// in fixed nation/regions/provinces order, and parses them into typed
// records. Any malformed row fails the whole load.
func (s *Service) Load(ctx context.Context) (*dto.Snapshot, error) {
	urls := []string{s.sources.NationURL, s.sources.RegionsURL, s.sources.ProvincesURL}
	payloads := make([][]byte, len(urls))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		eg.Go(func() error {
			payload, err := s.fetch(egCtx, url)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", url, err)
			}
			payloads[i] = payload
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	fingerprint, err := Fingerprint(payloads...)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	snap := &dto.Snapshot{Fingerprint: fingerprint}

	nationRows, err := parseRows[dto.NationRow](s.validate, payloads[0])
	if err != nil {
		return nil, fmt.Errorf("nation: %w", err)
	}
	for _, row := range nationRows {
		record, err := row.Record()
		if err != nil {
			return nil, fmt.Errorf("nation: %w", err)
		}
		snap.Nation = append(snap.Nation, record)
	}

	regionRows, err := parseRows[dto.RegionRow](s.validate, payloads[1])
	if err != nil {
		return nil, fmt.Errorf("regions: %w", err)
	}
	for _, row := range regionRows {
		record, err := row.Record()
		if err != nil {
			return nil, fmt.Errorf("regions: %w", err)
		}
		snap.Regions = append(snap.Regions, record)
	}

	provinceRows, err := parseRows[dto.ProvinceRow](s.validate, payloads[2])
	if err != nil {
		return nil, fmt.Errorf("provinces: %w", err)
	}
	for _, row := range provinceRows {
		record, err := row.Record()
		if err != nil {
			return nil, fmt.Errorf("provinces: %w", err)
		}
		snap.Provinces = append(snap.Provinces, record)
	}

	logger.Debugf(ctx, "snapshot loaded: %d/%d/%d records, fingerprint %s",
		len(snap.Nation), len(snap.Regions), len(snap.Provinces), fingerprint)

	return snap, nil
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	var payload []byte

	err := backoff.Retry(
		func() error {
			result, err := s.breaker.Execute(func() (interface{}, error) {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				if err != nil {
					return nil, fmt.Errorf("http.NewRequest: %w", err)
				}

				resp, err := s.client.Do(req)
				if err != nil {
					return nil, fmt.Errorf("client.Do: %w", err)
				}
				defer func() { _ = resp.Body.Close() }()

				if resp.StatusCode != http.StatusOK {
					return nil, fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
				}

				return io.ReadAll(resp.Body)
			})
			if err != nil {
				if err == gobreaker.ErrOpenState {
					return backoff.Permanent(err)
				}
				return err
			}

			payload = result.([]byte)
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// some dumps carry a UTF-8 BOM
var bom = []byte{0xEF, 0xBB, 0xBF}

func parseRows[T any](validate *validator.Validate, payload []byte) ([]T, error) {
	payload = bytes.TrimPrefix(payload, bom)

	var rows []T
	if err := sonic.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrDataFormat, err)
	}

	for i := range rows {
		if err := validate.Struct(&rows[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", constants.ErrDataFormat, i, err)
		}
	}

	return rows, nil
}
