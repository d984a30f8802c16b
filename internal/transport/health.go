// Package transport exposes the gRPC health service and the HTTP status handler of the ingester.
package transport

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// IngesterService is the health service name reported for the ingestion loop.
const IngesterService = "blockinsight7000.cardano.ingester"

// Health reports the ingestion loop through the standard gRPC health protocol.
type Health struct {
	server *health.Server
}

// NewHealth returns a Health reporting NOT_SERVING until SetServing(true).
func NewHealth() *Health {
	h := &Health{server: health.NewServer()}
	h.SetServing(false)
	return h
}

// Register installs the health service on s.
func (h *Health) Register(s grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(s, h.server)
}

// SetServing flips both the overall and the ingester status.
func (h *Health) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(IngesterService, status)
}

// Shutdown marks every service as not serving.
func (h *Health) Shutdown() {
	h.server.Shutdown()
}

// Server exposes the underlying health server.
func (h *Health) Server() healthpb.HealthServer {
	return h.server
}
