package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPingHealthChecker(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	assert.True(t, NewOkHealthChecker().Healthy(context.Background()))
	assert.True(t, NewPingHealthChecker(nil).Healthy(context.Background()))
	assert.True(t, NewPingHealthChecker(map[string]Pinger{"store": ok}).Healthy(context.Background()))
	assert.False(t, NewPingHealthChecker(map[string]Pinger{"store": ok, "index": down}).Healthy(context.Background()))
}
