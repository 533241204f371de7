// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	instanceInfoMetricName = "hoptrace_instance_info"
	instanceInfoHelp       = "Build and platform information of this hoptrace instance. The platform selects the traceroute tool in use."
)

// newInstanceInfo creates the hoptrace_instance_info info-style metric.
// The gauge is 1 with the labels instance_name, version and platform.
func newInstanceInfo(instanceName, platform string) prometheus.Collector {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: instanceInfoMetricName,
			Help: instanceInfoHelp,
		},
		[]string{"instance_name", "version", "platform"},
	)
	info.WithLabelValues(instanceName, serviceVersion(), platform).Set(1)
	return info
}
