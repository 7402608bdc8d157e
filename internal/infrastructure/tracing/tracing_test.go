package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "fineko-api"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
