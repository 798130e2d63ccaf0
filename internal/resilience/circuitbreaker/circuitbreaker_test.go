package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/evelyn-website/family-photo-sub000/internal/resilience/circuitbreaker"
)

func TestExecutePassesThroughWhenClosed(t *testing.T) {
	t.Parallel()

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("test"))

	result, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("Execute() = %v, want ok", result)
	}
	if cb.IsOpen() {
		t.Error("IsOpen() = true after a single success")
	}
}

func TestTripsAfterFailureThreshold(t *testing.T) {
	t.Parallel()

	cfg := circuitbreaker.Config{
		Name:             "trippy",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      4,
	}
	cb := circuitbreaker.New(cfg)
	boom := errors.New("backend down")

	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, boom
		})
	}

	if !cb.IsOpen() {
		t.Fatalf("IsOpen() = false after %d consecutive failures, state %v", 4, cb.State())
	}

	_, err := cb.Execute(func() (interface{}, error) {
		t.Error("function executed while circuit open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Execute() while open = %v, want ErrOpenState", err)
	}
}

func TestConfigShapes(t *testing.T) {
	t.Parallel()

	query := circuitbreaker.PageQueryConfig()
	if query.Name != "photo-page-query" {
		t.Errorf("PageQueryConfig().Name = %q", query.Name)
	}

	payload := circuitbreaker.PayloadFetchConfig()
	if payload.FailureThreshold <= query.FailureThreshold {
		t.Error("payload breaker should tolerate more failures than the query breaker")
	}
}
