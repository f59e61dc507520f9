package main

// main starts the School Connect API: REST endpoints under /api, the realtime relay on /ws
// and the Prometheus metrics on /metrics.
func main() {
	startWithDig()
}
