package config

import (
	"os"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Logger: LoggerConfig{Level: "info", Encoding: "console", Mode: "stdout"},
		Ring: RingConfig{
			IDBits: 8,
			Mode:   "public",
			Fingers: FingersConfig{
				FixInterval: time.Second,
			},
			FaultTolerance: FaultToleranceConfig{
				SuccessorListSize:     3,
				StabilizationInterval: time.Second,
				FailureTimeout:        time.Second,
				OperationTimeout:      time.Second,
				MaxFailedProbes:       3,
			},
			Replication: ReplicationConfig{
				Factor:      2,
				FixInterval: time.Second,
			},
			Bootstrap: BootstrapConfig{Mode: "init"},
		},
		Node:      NodeConfig{Port: 4000},
		Telemetry: TelemetryConfig{},
	}
}

func TestValidateConfigAcceptsValidConfig(t *testing.T) {
	if err := validConfig().ValidateConfig(); err != nil {
		t.Fatalf("expected valid config to pass, got: %v", err)
	}
}

func TestValidateConfigRejectsReplicationFactorAboveSuccessorListSize(t *testing.T) {
	cfg := validConfig()
	cfg.Ring.Replication.Factor = cfg.Ring.FaultTolerance.SuccessorListSize + 1
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected error when replication.factor exceeds successorListSize")
	}
}

func TestValidateConfigRejectsInvalidLoggerLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected error for invalid logger.level")
	}
}

func TestValidateConfigRequiresDNSNameInDNSMode(t *testing.T) {
	cfg := validConfig()
	cfg.Ring.Bootstrap = BootstrapConfig{Mode: "dns", Port: 4000}
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected error when bootstrap.dnsName is missing in mode=dns")
	}
}

func TestValidateConfigRejectsInvalidStaticPeer(t *testing.T) {
	cfg := validConfig()
	cfg.Ring.Bootstrap = BootstrapConfig{Mode: "static", Peers: []string{"not-a-host-port"}}
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected error for malformed static peer address")
	}
}

func TestValidateConfigRejectsUnknownBootstrapMode(t *testing.T) {
	cfg := validConfig()
	cfg.Ring.Bootstrap = BootstrapConfig{Mode: "carrier-pigeon"}
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected error for unknown bootstrap mode")
	}
}

func TestValidateConfigRequiresTracingEndpointWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Tracing = TracingConfig{Enabled: true, Exporter: "jaeger"}
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected error when tracing is enabled without an endpoint")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	for _, kv := range [][2]string{
		{"NODE_ID", "deadbeef"},
		{"NODE_PORT", "9000"},
		{"BOOTSTRAP_MODE", "static"},
		{"BOOTSTRAP_PEERS", "a:1,b:2,c:3"},
		{"LOGGER_LEVEL", "debug"},
	} {
		t.Setenv(kv[0], kv[1])
	}
	// unset by Setenv cleanup automatically after the test

	cfg := validConfig()
	cfg.ApplyEnvOverrides()

	if cfg.Node.Id != "deadbeef" {
		t.Errorf("Node.Id = %q, want %q", cfg.Node.Id, "deadbeef")
	}
	if cfg.Node.Port != 9000 {
		t.Errorf("Node.Port = %d, want 9000", cfg.Node.Port)
	}
	if cfg.Ring.Bootstrap.Mode != "static" {
		t.Errorf("Bootstrap.Mode = %q, want %q", cfg.Ring.Bootstrap.Mode, "static")
	}
	if len(cfg.Ring.Bootstrap.Peers) != 3 || cfg.Ring.Bootstrap.Peers[1] != "b:2" {
		t.Errorf("Bootstrap.Peers = %v, want [a:1 b:2 c:3]", cfg.Ring.Bootstrap.Peers)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "debug")
	}
	// NODE_BIND defaults to 0.0.0.0 when unset.
	if cfg.Node.Bind != "0.0.0.0" {
		t.Errorf("Node.Bind = %q, want default 0.0.0.0", cfg.Node.Bind)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error loading a nonexistent config file")
	}
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	data := []byte("node:\n  port: 7000\nring:\n  idBits: 8\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Node.Port != 7000 {
		t.Errorf("Node.Port = %d, want 7000", cfg.Node.Port)
	}
	if cfg.Ring.IDBits != 8 {
		t.Errorf("Ring.IDBits = %d, want 8", cfg.Ring.IDBits)
	}
}
