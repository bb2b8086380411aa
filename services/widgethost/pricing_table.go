package widgethost

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MarcGrol/subscriptiondemo/lib/mylog"
)

const (
	DefaultPricingTableScriptURL = "https://js.stripe.com/v3/pricing-table.js"
	PricingTableTag              = "stripe-pricing-table"
	PricingTableIDAttribute      = "pricing-table-id"
	PublishableKeyAttribute      = "publishable-key"

	ScriptLoadFailureMessage = "The pricing table could not be loaded. Please try again later."
)

type PricingTableConfig struct {
	TableID        string
	PublishableKey string
	ScriptURL      string
}

func (cfg PricingTableConfig) Validate() error {
	if cfg.TableID == "" {
		return fmt.Errorf("%w: missing pricing table id", ErrInvalidConfig)
	}
	if !strings.HasPrefix(cfg.TableID, "prctbl_") {
		return fmt.Errorf("%w: pricing table id must start with prctbl_", ErrInvalidConfig)
	}
	err := validatePublishableKey(cfg.PublishableKey)
	if err != nil {
		return err
	}
	if cfg.ScriptURL != "" {
		u, err := url.Parse(cfg.ScriptURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("%w: script url %s must be an absolute https url", ErrInvalidConfig, cfg.ScriptURL)
		}
	}
	return nil
}

// PricingTable mounts the provider's pricing table once its script has loaded.
// Rendering, plan selection and submission are all done by that script.
type PricingTable struct {
	config PricingTableConfig
	logger mylog.Logger
}

func NewPricingTable(cfg PricingTableConfig) (*PricingTable, error) {
	if cfg.ScriptURL == "" {
		cfg.ScriptURL = DefaultPricingTableScriptURL
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &PricingTable{
		config: cfg,
		logger: mylog.New("widgethost"),
	}, nil
}

func (p *PricingTable) ScriptURL() string {
	return p.config.ScriptURL
}

// Element returns the custom element with the configured ids, untransformed.
func (p *PricingTable) Element() Element {
	return Element{
		Tag: PricingTableTag,
		Attributes: []Attribute{
			{Name: PricingTableIDAttribute, Value: p.config.TableID},
			{Name: PublishableKeyAttribute, Value: p.config.PublishableKey},
		},
	}
}

// OnScriptLoad appends exactly one pricing table element per load event.
// As long as the event does not fire, the container stays empty.
func (p *PricingTable) OnScriptLoad(c context.Context, container *Container) {
	container.Append(p.Element())
}

// OnScriptError leaves the container without pricing table and records why. There is no retry.
func (p *PricingTable) OnScriptError(c context.Context, container *Container, err error) {
	p.logger.Log(c, container.ID, mylog.SeverityError, "Error loading script %s: %s", p.config.ScriptURL, err)
	container.fail(ScriptLoadFailureMessage)
}
