// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package healthcheck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusStarting, "starting"},
		{StatusHealthy, "healthy"},
		{StatusUnhealthy, "unhealthy"},
		{Status(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	server := NewServer(Config{})
	if server.port != 8090 {
		t.Errorf("Expected default port 8090, got %d", server.port)
	}

	server = NewServer(Config{Port: 9090})
	if server.port != 9090 {
		t.Errorf("Expected port 9090, got %d", server.port)
	}
}

func TestServer_SetGetStatus(t *testing.T) {
	server := NewServer(Config{})

	if status := server.GetStatus(); status != StatusStarting {
		t.Errorf("Expected initial status to be StatusStarting, got %v", status)
	}

	server.SetStatus(StatusHealthy)
	if status := server.GetStatus(); status != StatusHealthy {
		t.Errorf("Expected status to be StatusHealthy, got %v", status)
	}

	server.SetStatus(StatusUnhealthy)
	if status := server.GetStatus(); status != StatusUnhealthy {
		t.Errorf("Expected status to be StatusUnhealthy, got %v", status)
	}
}

func TestServer_ReadyConditions(t *testing.T) {
	server := NewServer(Config{})

	if server.IsReady() {
		t.Error("server must start not ready")
	}

	server.SetReady(true)
	if !server.IsReady() {
		t.Error("expected ready after SetReady(true)")
	}

	server.SetReadyCondition("feed", false)
	if server.IsReady() {
		t.Error("a false condition must hold readiness down")
	}

	server.SetReadyCondition("feed", true)
	if !server.IsReady() {
		t.Error("expected ready once all conditions hold")
	}

	server.SetReadyCondition("bridge", false)
	server.ClearReadyCondition("bridge")
	if !server.IsReady() {
		t.Error("cleared conditions must not count")
	}

	server.SetReady(false)
	if server.IsReady() {
		t.Error("base ready flag gates everything")
	}
}

func TestHealthEndpoints(t *testing.T) {
	server := NewServer(Config{})

	tests := []struct {
		name            string
		status          Status
		ready           bool
		endpoint        string
		expectedStatus  int
		expectedHealthy bool
	}{
		{"healthz starting", StatusStarting, false, "/healthz", http.StatusServiceUnavailable, false},
		{"healthz healthy", StatusHealthy, true, "/healthz", http.StatusOK, true},
		{"healthz unhealthy", StatusUnhealthy, false, "/healthz", http.StatusServiceUnavailable, false},
		{"readyz not ready", StatusHealthy, false, "/readyz", http.StatusServiceUnavailable, false},
		{"readyz ready", StatusHealthy, true, "/readyz", http.StatusOK, true},
		{"livez starting", StatusStarting, false, "/livez", http.StatusOK, true},
		{"livez healthy", StatusHealthy, true, "/livez", http.StatusOK, true},
		{"livez unhealthy", StatusUnhealthy, false, "/livez", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server.SetStatus(tt.status)
			server.SetReady(tt.ready)

			req := httptest.NewRequest(http.MethodGet, tt.endpoint, nil)
			rr := httptest.NewRecorder()

			switch tt.endpoint {
			case "/healthz":
				server.healthzHandler(rr, req)
			case "/readyz":
				server.readyzHandler(rr, req)
			case "/livez":
				server.livezHandler(rr, req)
			}

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			var response Response
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Errorf("Invalid JSON response: %v", err)
			}
			if response.Healthy != tt.expectedHealthy {
				t.Errorf("Expected healthy %v, got %v", tt.expectedHealthy, response.Healthy)
			}
		})
	}
}
