package bootstrap

import (
	"context"

	"chordring/internal/config"
	"chordring/internal/domain"
	"chordring/internal/logger"
)

// DNSBootstrap discovers peers via DNS SRV or A/AAAA lookups. It never
// registers or deregisters anything itself: DNS-based discovery assumes
// records are managed externally (by a CoreDNS zone, a service mesh,
// etc.). Route53 self-registration is done only by Route53Bootstrap,
// which the node uses when bootstrap.mode is route53, not alongside
// this type.
type DNSBootstrap struct {
	cfg config.BootstrapConfig
	lgr logger.Logger
}

// NewDNSBootstrap creates a DNS-based bootstrap discoverer.
func NewDNSBootstrap(cfg config.BootstrapConfig, lgr logger.Logger) *DNSBootstrap {
	return &DNSBootstrap{cfg: cfg, lgr: lgr}
}

func (d *DNSBootstrap) Discover(ctx context.Context) ([]string, error) {
	return ResolveBootstrap(d.cfg, d.lgr)
}

func (d *DNSBootstrap) Register(ctx context.Context, node *domain.Node) error {
	return nil
}

func (d *DNSBootstrap) Deregister(ctx context.Context, node *domain.Node) error {
	return nil
}
