package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// WriteTextfile writes the qoe_* families gathered from g in the Prometheus
// text format, suitable for the node_exporter textfile collector.
// The file is written to a temporary name and renamed into place.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".qoe-metrics-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := expfmt.NewEncoder(tmp, expfmt.FmtText)
	for _, mf := range ownFamilies(families) {
		if err := enc.Encode(mf); err != nil {
			tmp.Close()
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ownFamilies drops families not produced by this package, such as the Go
// runtime collectors of the default registry.
func ownFamilies(families []*dto.MetricFamily) []*dto.MetricFamily {
	out := families[:0:0]
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), Namespace+"_") {
			out = append(out, mf)
		}
	}
	return out
}
