/*
Package observability turns coordinator lifecycle hooks into Prometheus
metrics and structured log lines.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	c, _ := tandem.New(a, b, combiner,
		tandem.WithLifecycleHooks(metrics.Hooks()),
		tandem.WithLifecycleHooks(observability.LogHooks(logger)),
	)
	http.Handle("/metrics", observability.Handler(prometheus.DefaultGatherer))
*/
package observability
