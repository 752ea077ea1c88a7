package ebay

import (
	"fmt"
	"slices"
)

// Environment names an eBay deployment with its own hosts, credentials
// and scope list.
type Environment string

// Supported environments.
const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

// Environments lists every supported environment in a stable order.
var Environments = []Environment{Production, Sandbox}

// Endpoints holds the base URLs for one environment.
type Endpoints struct {
	API  string `json:"api"  yaml:"api"`
	Auth string `json:"auth" yaml:"auth"`
}

var defaultEndpoints = map[Environment]Endpoints{
	Production: {
		API:  "https://api.ebay.com",
		Auth: "https://auth.ebay.com",
	},
	Sandbox: {
		API:  "https://api.sandbox.ebay.com",
		Auth: "https://auth.sandbox.ebay.com",
	},
}

// DefaultEndpoints returns the public eBay hosts for env.
func DefaultEndpoints(env Environment) (Endpoints, error) {
	ep, ok := defaultEndpoints[env]
	if !ok {
		return Endpoints{}, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
	}
	return ep, nil
}

// ParseEnvironment validates s as an Environment.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(s)
	if !env.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
	}
	return env, nil
}

// Valid reports whether e is production or sandbox.
func (e Environment) Valid() bool {
	_, ok := defaultEndpoints[e]
	return ok
}

// AppScope is the public scope requested by the client-credentials grant.
const AppScope = "https://api.ebay.com/oauth/api_scope"

const scopePrefix = "https://api.ebay.com/oauth/api_scope/"

var productionScopes = []string{
	AppScope,
	scopePrefix + "sell.marketing.readonly",
	scopePrefix + "sell.marketing",
	scopePrefix + "sell.inventory.readonly",
	scopePrefix + "sell.inventory",
	scopePrefix + "sell.account.readonly",
	scopePrefix + "sell.account",
	scopePrefix + "sell.fulfillment.readonly",
	scopePrefix + "sell.fulfillment",
	scopePrefix + "sell.analytics.readonly",
	scopePrefix + "sell.finances",
	scopePrefix + "sell.payment.dispute",
	scopePrefix + "commerce.identity.readonly",
	scopePrefix + "sell.reputation",
	scopePrefix + "sell.reputation.readonly",
	scopePrefix + "commerce.notification.subscription",
	scopePrefix + "commerce.notification.subscription.readonly",
	scopePrefix + "sell.stores",
	scopePrefix + "sell.stores.readonly",
	"https://api.ebay.com/oauth/scope/sell.edelivery",
}

var sandboxScopes = []string{
	AppScope,
	scopePrefix + "buy.order.readonly",
	scopePrefix + "buy.guest.order",
	scopePrefix + "sell.marketing.readonly",
	scopePrefix + "sell.marketing",
	scopePrefix + "sell.inventory.readonly",
	scopePrefix + "sell.inventory",
	scopePrefix + "sell.account.readonly",
	scopePrefix + "sell.account",
	scopePrefix + "sell.fulfillment.readonly",
	scopePrefix + "sell.fulfillment",
	scopePrefix + "sell.analytics.readonly",
	scopePrefix + "sell.marketplace.insights.readonly",
	scopePrefix + "commerce.catalog.readonly",
	scopePrefix + "buy.shopping.cart",
	scopePrefix + "buy.offer.auction",
	scopePrefix + "commerce.identity.readonly",
	scopePrefix + "commerce.identity.email.readonly",
	scopePrefix + "commerce.identity.phone.readonly",
	scopePrefix + "commerce.identity.address.readonly",
	scopePrefix + "commerce.identity.name.readonly",
	scopePrefix + "commerce.identity.status.readonly",
	scopePrefix + "sell.finances",
	scopePrefix + "sell.payment.dispute",
	scopePrefix + "sell.item.draft",
	scopePrefix + "sell.item",
	scopePrefix + "sell.reputation",
	scopePrefix + "sell.reputation.readonly",
	scopePrefix + "commerce.notification.subscription",
	scopePrefix + "commerce.notification.subscription.readonly",
	scopePrefix + "sell.stores",
	scopePrefix + "sell.stores.readonly",
}

// DefaultScopes returns a copy of the user-consent scope list for env.
// Unknown environments return nil.
func DefaultScopes(env Environment) []string {
	switch env {
	case Production:
		return slices.Clone(productionScopes)
	case Sandbox:
		return slices.Clone(sandboxScopes)
	default:
		return nil
	}
}
