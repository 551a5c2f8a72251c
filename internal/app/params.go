package app

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/config"
	"github.com/talkincode/shopgen/internal/generator"
)

// GeneratorParams maps the generator section of the config to run
// parameters. The anchor date accepts any format dateparse understands;
// "today" leaves it unset.
func GeneratorParams(cfg config.GeneratorConfig) (generator.Params, error) {
	p := generator.Params{
		Seed:             cfg.Seed,
		Customers:        cfg.Customers,
		Products:         cfg.Products,
		Orders:           cfg.Orders,
		OrderItems:       cfg.OrderItems,
		SignupWindowDays: cfg.SignupWindowDays,
		OrderWindowDays:  cfg.OrderWindowDays,
		PaymentLagDays:   cfg.PaymentLagDays,
	}
	if anchor := strings.TrimSpace(cfg.AnchorDate); anchor != "" && !strings.EqualFold(anchor, "today") {
		t, err := dateparse.ParseIn(anchor, time.UTC)
		if err != nil {
			return p, errors.Wrapf(generator.ErrConfig, "anchor_date %q: %v", anchor, err)
		}
		p.Anchor = t
	}
	return p, nil
}
