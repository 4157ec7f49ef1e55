package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"freightpool/internal/entities"
	retrierconfig "freightpool/pkg/retrier"
	"freightpool/pkg/retrier/backoff_adapter"
)

const (
	serviceName = "osrm"
)

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxElapsedTime  = 1 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
)

type Gateway struct {
	baseURL string
	client  httpDoer
	retrier retrier
}

func New(baseURL string, client httpDoer) *Gateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry:     isRetryableError,
	}

	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		retrier: backoff_adapter.New(retryConfig),
	}
}

// EstimateRoute спрашивает у OSRM дорожную дистанцию и длительность
// между двумя точками. OSRM принимает координаты как lon,lat.
func (g *Gateway) EstimateRoute(ctx context.Context, from, to entities.Location) (*entities.RouteEstimate, error) {
	requestURL := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		g.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway routing, build request: %w", err)
	}

	var routeModel routeResponse

	err = g.executeWithMetrics(ctx, "EstimateRoute", func(_ context.Context) error {
		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			// дочитываем тело, иначе соединение не вернется в пул
			_, _ = io.Copy(io.Discard, resp.Body)
			return &errHTTPStatus{code: resp.StatusCode}
		}

		if err := json.NewDecoder(resp.Body).Decode(&routeModel); err != nil {
			return fmt.Errorf("decode osrm response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gateway routing, estimate route: %w", err)
	}

	if routeModel.Code != "Ok" {
		return nil, fmt.Errorf("gateway routing, osrm code %s", routeModel.Code)
	}
	if len(routeModel.Routes) == 0 {
		return nil, fmt.Errorf("gateway routing, osrm returned no routes")
	}

	return toDomain(&routeModel.Routes[0]), nil
}

type errHTTPStatus struct {
	code int
}

func (e *errHTTPStatus) Error() string {
	return fmt.Sprintf("osrm responded %d", e.code)
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *errHTTPStatus
	if errors.As(err, &statusErr) {
		switch statusErr.code {
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	// транспортные ошибки ретраим, ошибки разбора ответа нет
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func (g *Gateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	httpCode := getHTTPCode(err)
	// Метрики Prometheus
	GatewayRequestDuration.WithLabelValues(serviceName, method, httpCode).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		// Метрики Prometheus
		GatewayRetriesTotal.WithLabelValues(serviceName, method, httpCode).Inc()
	}

	return err
}

func getHTTPCode(err error) string {
	if err == nil {
		return "200"
	}

	var statusErr *errHTTPStatus
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.code)
	}
	return "transport_error"
}
