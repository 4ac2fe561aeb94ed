package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegister_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { Register(reg) })
	// a second registration on the same registry must fail loudly
	require.Panics(t, func() { Register(reg) })
}

func TestObserveDB_StatusLabel(t *testing.T) {
	before := testutil.CollectAndCount(DBQueryDuration)
	ObserveDB("test_ok", time.Now(), nil)
	ObserveDB("test_err", time.Now(), errors.New("boom"))
	require.Equal(t, before+2, testutil.CollectAndCount(DBQueryDuration))
}
