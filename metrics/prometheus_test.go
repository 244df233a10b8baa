// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopByDefault(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}
	assert.Nil(t, HTTPHandler())
}

func TestPrometheusMetrics(t *testing.T) {
	lazy := LazyLoadCounterVec("lazy_ops", []string{"op"})

	InitializePrometheusMetrics()
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	require.IsType(t, &promCountVecMeter{}, lazy())

	count := Counter("count1")
	count.Add(2)
	Counter("count1").Add(1)

	for i := 0; i < 4; i++ {
		lazy().AddWithLabel(1, map[string]string{"op": strconv.Itoa(i % 2)})
	}

	gauge := GaugeVec("gauge_vec", []string{"pool"})
	gauge.SetWithLabel(10, map[string]string{"pool": "1"})
	gauge.AddWithLabel(5, map[string]string{"pool": "1"})

	Histogram("amounts", BucketAmounts).Observe(150)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, dto.MetricType_COUNTER, families["cybar_count1"].GetType())
	assert.Equal(t, dto.MetricType_GAUGE, families["cybar_gauge_vec"].GetType())
	assert.Equal(t, dto.MetricType_HISTOGRAM, families["cybar_amounts"].GetType())

	assert.Equal(t, float64(3), families["cybar_count1"].GetMetric()[0].GetCounter().GetValue())
	ops := families["cybar_lazy_ops"].GetMetric()
	require.Len(t, ops, 2)
	assert.Equal(t, float64(4), ops[0].GetCounter().GetValue()+ops[1].GetCounter().GetValue())
	assert.Equal(t, float64(15), families["cybar_gauge_vec"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), families["cybar_amounts"].GetMetric()[0].GetHistogram().GetSampleCount())

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf))
	assert.Contains(t, buf.String(), "cybar_count1 3")
}
