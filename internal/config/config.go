package config

import (
	"chordring/internal/configloader"
	"chordring/internal/logger"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Active   bool             `yaml:"active"`
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"`
	Mode     string           `yaml:"mode"`
	File     FileLoggerConfig `yaml:"file"`
}

// FingersConfig governs the round-robin finger-table fix-up loop.
type FingersConfig struct {
	FixInterval time.Duration `yaml:"fixInterval"`
}

// FaultToleranceConfig governs successor-list upkeep, liveness probing
// and the timeouts bounding individual RPC hops. MaxFailedProbes is
// validated and logged only: the node's failure detector uses a fixed
// threshold of three failed probes regardless of this value.
type FaultToleranceConfig struct {
	SuccessorListSize      int           `yaml:"successorListSize"`
	StabilizationInterval  time.Duration `yaml:"stabilizationInterval"`
	FailureTimeout         time.Duration `yaml:"failureTimeout"`
	OperationTimeout       time.Duration `yaml:"operationTimeout"`
	MaxFailedProbes        int           `yaml:"maxFailedProbes"`
}

// Route53Config names the AWS Route53 hosted zone this node registers an
// SRV record in when bootstrap.mode=route53.
type Route53Config struct {
	Enabled      bool   `yaml:"enabled"`
	HostedZoneID string `yaml:"hostedZoneId"`
	DomainSuffix string `yaml:"domainSuffix"`
	TTL          int64  `yaml:"ttl"`
	Region       string `yaml:"region"`
}

type BootstrapConfig struct {
	Mode     string        `yaml:"mode"`
	DNSName  string        `yaml:"dnsName"`
	Resolver string        `yaml:"resolver"`
	Service  string        `yaml:"service"`
	Proto    string        `yaml:"proto"`
	SRV      bool          `yaml:"srv"`
	Port     int           `yaml:"port"`
	Peers    []string      `yaml:"peers"`
	Route53  Route53Config `yaml:"route53"`
}

// ReplicationConfig governs successor-list key replication: how many
// successors each key is pushed to, and how often outstanding shortfalls
// are retried.
type ReplicationConfig struct {
	Factor      int           `yaml:"factor"`
	FixInterval time.Duration `yaml:"fixInterval"`
}

// RingConfig is the Chord-ring-specific configuration: identifier space,
// routing maintenance cadence, replication, and peer discovery.
type RingConfig struct {
	IDBits         int                  `yaml:"idBits"`
	Mode           string               `yaml:"mode"`
	Fingers        FingersConfig        `yaml:"fingers"`
	FaultTolerance FaultToleranceConfig `yaml:"faultTolerance"`
	Replication    ReplicationConfig    `yaml:"replication"`
	Bootstrap      BootstrapConfig      `yaml:"bootstrap"`
}

type NodeConfig struct {
	Id   string `yaml:"id"`
	Bind string `yaml:"bind"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	Ring      RingConfig      `yaml:"ring"`
	Node      NodeConfig      `yaml:"node"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoadConfig loads the configuration from a YAML file at the given path.
//
// Behavior:
//   - Reads the file contents from disk.
//   - Unmarshals the YAML data into a Config struct.
//   - Returns the parsed configuration or an error if reading or parsing fails.
//
// This function performs only syntactic parsing of the YAML file.
// To validate the configuration structure and check for missing or invalid
// fields, call cfg.ValidateConfig() after loading.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
//
// Behavior:
//   - This method modifies only selected fields of the Config struct that are
//     commonly node-specific or deployment-dependent.
//   - For each supported field, if a corresponding environment variable is set,
//     its value overrides the value loaded from the YAML configuration file.
//   - Supported overrides include:
//     NODE_ID              -> cfg.Node.Id
//     NODE_BIND            -> cfg.Node.Bind
//     NODE_HOST            -> cfg.Node.Host
//     NODE_PORT            -> cfg.Node.Port
//     BOOTSTRAP_MODE       -> cfg.Ring.Bootstrap.Mode
//     BOOTSTRAP_DNSNAME    -> cfg.Ring.Bootstrap.DNSName
//     BOOTSTRAP_SRV        -> cfg.Ring.Bootstrap.SRV
//     BOOTSTRAP_PORT       -> cfg.Ring.Bootstrap.Port
//     BOOTSTRAP_PEERS      -> cfg.Ring.Bootstrap.Peers (comma-separated list)
//     ROUTE53_ENABLED     -> cfg.Ring.Bootstrap.Route53.Enabled
//     ROUTE53_ZONE_ID     -> cfg.Ring.Bootstrap.Route53.HostedZoneID
//     ROUTE53_SUFFIX      -> cfg.Ring.Bootstrap.Route53.DomainSuffix
//     ROUTE53_TTL         -> cfg.Ring.Bootstrap.Route53.TTL
//     TRACE_ENABLED        -> cfg.Telemetry.Tracing.Enabled
//     TRACE_EXPORTER       -> cfg.Telemetry.Tracing.Exporter
//     TRACE_ENDPOINT       -> cfg.Telemetry.Tracing.Endpoint
//     LOGGER_ENABLED      -> cfg.Logger.Active
//     LOGGER_LEVEL        -> cfg.Logger.Level
//     LOGGER_ENCODING     -> cfg.Logger.Encoding
//     LOGGER_MODE         -> cfg.Logger.Mode
//     LOGGER_FILE_PATH    -> cfg.Logger.File.Path
//
// Type conversions:
//   - Integer fields (e.g., NODE_PORT, BOOTSTRAP_PORT) are parsed using strconv.Atoi;
//     invalid values are ignored.
//   - Boolean fields (e.g., BOOTSTRAP_SRV) accept "1", "true", "TRUE" or "True"
//     as true and "0", "false", "FALSE" or "False" as false; any other value
//     is ignored.
//   - Lists such as BOOTSTRAP_PEERS are parsed by splitting the string on commas.
//
// Usage:
//
//	cfg, _ := LoadConfig("config.yaml")
//	cfg.ApplyEnvOverrides()
func (cfg *Config) ApplyEnvOverrides() {
	configloader.OverrideString(&cfg.Node.Id, "NODE_ID")
	if os.Getenv("NODE_BIND") == "" {
		cfg.Node.Bind = "0.0.0.0" // default
	}
	configloader.OverrideString(&cfg.Node.Bind, "NODE_BIND")
	configloader.OverrideString(&cfg.Node.Host, "NODE_HOST")
	configloader.OverrideInt(&cfg.Node.Port, "NODE_PORT")

	configloader.OverrideString(&cfg.Ring.Bootstrap.Mode, "BOOTSTRAP_MODE")
	configloader.OverrideString(&cfg.Ring.Bootstrap.DNSName, "BOOTSTRAP_DNSNAME")
	configloader.OverrideBool(&cfg.Ring.Bootstrap.SRV, "BOOTSTRAP_SRV")
	configloader.OverrideInt(&cfg.Ring.Bootstrap.Port, "BOOTSTRAP_PORT")
	configloader.OverrideStringSlice(&cfg.Ring.Bootstrap.Peers, "BOOTSTRAP_PEERS")

	configloader.OverrideBool(&cfg.Telemetry.Tracing.Enabled, "TRACE_ENABLED")
	configloader.OverrideString(&cfg.Telemetry.Tracing.Exporter, "TRACE_EXPORTER")
	configloader.OverrideString(&cfg.Telemetry.Tracing.Endpoint, "TRACE_ENDPOINT")

	configloader.OverrideBool(&cfg.Ring.Bootstrap.Route53.Enabled, "ROUTE53_ENABLED")
	configloader.OverrideString(&cfg.Ring.Bootstrap.Route53.HostedZoneID, "ROUTE53_ZONE_ID")
	configloader.OverrideString(&cfg.Ring.Bootstrap.Route53.DomainSuffix, "ROUTE53_SUFFIX")
	configloader.OverrideInt64(&cfg.Ring.Bootstrap.Route53.TTL, "ROUTE53_TTL")

	configloader.OverrideBool(&cfg.Logger.Active, "LOGGER_ENABLED")
	configloader.OverrideString(&cfg.Logger.Level, "LOGGER_LEVEL")
	configloader.OverrideString(&cfg.Logger.Encoding, "LOGGER_ENCODING")
	configloader.OverrideString(&cfg.Logger.Mode, "LOGGER_MODE")
	configloader.OverrideString(&cfg.Logger.File.Path, "LOGGER_FILE_PATH")
}

// ValidateConfig performs structural validation of the loaded configuration.
//
// The validation checks only the syntactic and structural correctness of the
// configuration file, not the semantic correctness of protocol parameters.
// For example, it verifies that required fields are present and values are
// within valid ranges (e.g., port numbers, durations, bits), but it does not
// check whether the configured replication factor makes sense for the ring
// size, which can only be judged at runtime.
//
// All detected issues are accumulated and returned as a single error. If the
// configuration is valid, the method returns nil.
func (cfg *Config) ValidateConfig() error {
	var errs []string

	// --- Logger ---
	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.level: %s", cfg.Logger.Level))
	}
	switch cfg.Logger.Encoding {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.encoding: %s", cfg.Logger.Encoding))
	}
	switch cfg.Logger.Mode {
	case "stdout":
	case "file":
		if cfg.Logger.File.Path == "" {
			errs = append(errs, "logger.file.path is required when mode=file")
		}
		if cfg.Logger.File.MaxSize < 0 || cfg.Logger.File.MaxBackups < 0 || cfg.Logger.File.MaxAge < 0 {
			errs = append(errs, "logger.file.* values must be non-negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.mode: %s", cfg.Logger.Mode))
	}

	// --- Ring ---
	if cfg.Ring.IDBits <= 0 {
		errs = append(errs, "ring.idBits must be > 0")
	}
	switch cfg.Ring.Mode {
	case "public", "private":
	default:
		errs = append(errs, fmt.Sprintf("invalid ring.mode: %s", cfg.Ring.Mode))
	}
	if cfg.Ring.Fingers.FixInterval <= 0 {
		errs = append(errs, "ring.fingers.fixInterval must be > 0")
	}
	if cfg.Ring.FaultTolerance.SuccessorListSize <= 0 {
		errs = append(errs, "ring.faultTolerance.successorListSize must be > 0")
	}
	if cfg.Ring.FaultTolerance.StabilizationInterval <= 0 {
		errs = append(errs, "ring.faultTolerance.stabilizationInterval must be > 0")
	}
	if cfg.Ring.FaultTolerance.FailureTimeout <= 0 {
		errs = append(errs, "ring.faultTolerance.failureTimeout must be > 0")
	}
	if cfg.Ring.FaultTolerance.OperationTimeout <= 0 {
		errs = append(errs, "ring.faultTolerance.operationTimeout must be > 0")
	}
	if cfg.Ring.FaultTolerance.MaxFailedProbes <= 0 {
		errs = append(errs, "ring.faultTolerance.maxFailedProbes must be > 0")
	}
	if cfg.Ring.Replication.Factor < 0 {
		errs = append(errs, "ring.replication.factor must be >= 0")
	}
	if cfg.Ring.Replication.Factor > cfg.Ring.FaultTolerance.SuccessorListSize {
		errs = append(errs, "ring.replication.factor must be <= ring.faultTolerance.successorListSize")
	}
	if cfg.Ring.Replication.FixInterval <= 0 {
		errs = append(errs, "ring.replication.fixInterval must be > 0")
	}

	// --- Bootstrap ---
	b := cfg.Ring.Bootstrap
	switch b.Mode {
	case "dns":
		if b.DNSName == "" {
			errs = append(errs, "bootstrap.dnsName is required in mode=dns")
		}
		if !b.SRV && b.Port <= 0 {
			errs = append(errs, "bootstrap.port must be > 0 when using A/AAAA (srv=false)")
		}
		if b.Route53.Enabled {
			if b.Route53.HostedZoneID == "" {
				errs = append(errs, "bootstrap.route53.hostedZoneId is required when route53.enabled=true")
			}
			if b.Route53.DomainSuffix == "" {
				errs = append(errs, "bootstrap.route53.domainSuffix is required when route53.enabled=true")
			}
			if b.Route53.TTL <= 0 {
				errs = append(errs, "bootstrap.route53.ttl must be > 0 when route53.enabled=true")
			}
		}
	case "route53":
		if b.Route53.HostedZoneID == "" {
			errs = append(errs, "bootstrap.route53.hostedZoneId is required in mode=route53")
		}
		if b.Route53.DomainSuffix == "" {
			errs = append(errs, "bootstrap.route53.domainSuffix is required in mode=route53")
		}
	case "static":
		for _, p := range b.Peers {
			if _, _, err := net.SplitHostPort(p); err != nil {
				errs = append(errs, fmt.Sprintf("invalid peer address %q in bootstrap.peers: %v", p, err))
			}
		}
	case "init":
		// first node of the ring, no extra constraints
	default:
		errs = append(errs, fmt.Sprintf("invalid bootstrap.mode: %s (must be dns, route53, static or init)", b.Mode))
	}

	// --- Node ---
	if cfg.Node.Port < 0 || cfg.Node.Port > 65535 {
		errs = append(errs, fmt.Sprintf("node.port must be in [0,65535], got %d", cfg.Node.Port))
	}

	// --- Telemetry ---
	if cfg.Telemetry.Tracing.Enabled {
		switch cfg.Telemetry.Tracing.Exporter {
		case "stdout", "jaeger", "otlp":
		default:
			errs = append(errs, fmt.Sprintf("invalid telemetry.tracing.exporter: %s", cfg.Telemetry.Tracing.Exporter))
		}
		if cfg.Telemetry.Tracing.Endpoint == "" {
			errs = append(errs, "telemetry.tracing.endpoint is required")
		}
	}

	// --- Return result ---
	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogConfig prints the loaded configuration at DEBUG level.
// This is useful for debugging startup issues and verifying
// that the configuration file has been parsed correctly.
func (cfg *Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("Loaded configuration",
		// Logger
		logger.F("logger.active", cfg.Logger.Active),
		logger.F("logger.level", cfg.Logger.Level),
		logger.F("logger.encoding", cfg.Logger.Encoding),
		logger.F("logger.mode", cfg.Logger.Mode),
		logger.F("logger.file.path", cfg.Logger.File.Path),
		logger.F("logger.file.maxSizeMB", cfg.Logger.File.MaxSize),
		logger.F("logger.file.maxBackups", cfg.Logger.File.MaxBackups),
		logger.F("logger.file.maxAgeDays", cfg.Logger.File.MaxAge),
		logger.F("logger.file.compress", cfg.Logger.File.Compress),

		// Ring
		logger.F("ring.idBits", cfg.Ring.IDBits),
		logger.F("ring.mode", cfg.Ring.Mode),

		// fingers
		logger.F("ring.fingers.fixInterval", cfg.Ring.Fingers.FixInterval.String()),
		logger.F("ring.fingers.fixIntervalMs", cfg.Ring.Fingers.FixInterval.Milliseconds()),

		// replication
		logger.F("ring.replication.factor", cfg.Ring.Replication.Factor),
		logger.F("ring.replication.fixInterval", cfg.Ring.Replication.FixInterval.String()),
		logger.F("ring.replication.fixIntervalMs", cfg.Ring.Replication.FixInterval.Milliseconds()),

		// fault tolerance
		logger.F("ring.faultTolerance.successorListSize", cfg.Ring.FaultTolerance.SuccessorListSize),
		logger.F("ring.faultTolerance.stabilizationInterval", cfg.Ring.FaultTolerance.StabilizationInterval.String()),
		logger.F("ring.faultTolerance.stabilizationIntervalMs", cfg.Ring.FaultTolerance.StabilizationInterval.Milliseconds()),
		logger.F("ring.faultTolerance.failureTimeout", cfg.Ring.FaultTolerance.FailureTimeout.String()),
		logger.F("ring.faultTolerance.failureTimeoutMs", cfg.Ring.FaultTolerance.FailureTimeout.Milliseconds()),
		logger.F("ring.faultTolerance.operationTimeout", cfg.Ring.FaultTolerance.OperationTimeout.String()),
		logger.F("ring.faultTolerance.maxFailedProbes", cfg.Ring.FaultTolerance.MaxFailedProbes),

		// bootstrap
		logger.F("ring.bootstrap.mode", cfg.Ring.Bootstrap.Mode),
		logger.F("ring.bootstrap.dnsName", cfg.Ring.Bootstrap.DNSName),
		logger.F("ring.bootstrap.srv", cfg.Ring.Bootstrap.SRV),
		logger.F("ring.bootstrap.port", cfg.Ring.Bootstrap.Port),
		logger.F("ring.bootstrap.peers", cfg.Ring.Bootstrap.Peers),

		// route53
		logger.F("ring.bootstrap.route53.enabled", cfg.Ring.Bootstrap.Route53.Enabled),
		logger.F("ring.bootstrap.route53.hostedZoneId", cfg.Ring.Bootstrap.Route53.HostedZoneID),
		logger.F("ring.bootstrap.route53.domainSuffix", cfg.Ring.Bootstrap.Route53.DomainSuffix),
		logger.F("ring.bootstrap.route53.ttl", cfg.Ring.Bootstrap.Route53.TTL),

		// Node
		logger.F("node.id", cfg.Node.Id),
		logger.F("node.bind", cfg.Node.Bind),
		logger.F("node.port", cfg.Node.Port),

		// Telemetry
		logger.F("telemetry.tracing.enabled", cfg.Telemetry.Tracing.Enabled),
		logger.F("telemetry.tracing.exporter", cfg.Telemetry.Tracing.Exporter),
		logger.F("telemetry.tracing.endpoint", cfg.Telemetry.Tracing.Endpoint),
	)
}
