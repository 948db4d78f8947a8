package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tracksmith-io/tracksmith/internal/sdks"
)

// templates maps category names to starter plan builders. Builders return a
// fresh plan each call so callers can edit freely.
var templates = map[string]func() *TrackingPlan{
	"saas":      saasTemplate,
	"plg":       plgTemplate,
	"ecommerce": ecommerceTemplate,
}

// Categories returns the available starter template names, sorted.
func Categories() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template returns a starter tracking plan for the given category.
func Template(category string) (*TrackingPlan, error) {
	build, ok := templates[strings.ToLower(category)]
	if !ok {
		return nil, fmt.Errorf("unknown category %q (available: %s)", category, strings.Join(Categories(), ", "))
	}
	p := build()
	p.ApplyDefaults()
	sortPlan(p)
	return p, nil
}

func prop(name, typ string, required bool, description string) Property {
	return Property{Name: name, Type: typ, Required: required, Description: description}
}

func saasTemplate() *TrackingPlan {
	return &TrackingPlan{
		Events: []Event{
			{
				Name:        "signup.started",
				Description: "User began the signup flow",
				Origin:      sdks.OriginFrontend,
				Trigger:     "Signup form rendered",
				Properties: []Property{
					prop("method", TypeString, false, "Auth method offered (email, google, sso)"),
					prop("referrer", TypeString, false, "Page or campaign that led here"),
				},
			},
			{
				Name:        "signup.completed",
				Description: "Account successfully created",
				Origin:      sdks.OriginBackend,
				Trigger:     "Account row committed",
				Properties: []Property{
					prop("method", TypeString, true, "Auth method used"),
					prop("plan", TypeString, false, "Initial plan, if chosen at signup"),
				},
			},
			{
				Name:        "login.completed",
				Description: "User authenticated",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("method", TypeString, false, "Auth method used"),
				},
			},
			{
				Name:        "trial.started",
				Description: "Trial period began for an account",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("plan", TypeString, true, "Plan being trialed"),
					prop("days", TypeNumber, false, "Trial length in days"),
				},
			},
			{
				Name:        "trial.converted",
				Description: "Trial turned into a paid subscription",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("plan", TypeString, true, "Plan purchased"),
					prop("mrr", TypeNumber, false, "Monthly recurring revenue added"),
				},
			},
			{
				Name:        "subscription.upgraded",
				Description: "Account moved to a higher plan",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("previous_plan", TypeString, false, "Plan before the change"),
					prop("plan", TypeString, true, "Plan after the change"),
				},
			},
			{
				Name:        "subscription.cancelled",
				Description: "Account cancelled its subscription",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("plan", TypeString, false, "Plan at time of cancellation"),
					prop("reason", TypeString, false, "Self-reported cancellation reason"),
				},
			},
			{
				Name:        "invitation.sent",
				Description: "Existing user invited a teammate",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("role", TypeString, false, "Role offered to the invitee"),
				},
			},
			{
				Name:        "invitation.accepted",
				Description: "Invitee joined the account",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("role", TypeString, false, "Role granted"),
				},
			},
			{
				Name:        "dashboard.viewed",
				Description: "User opened the main dashboard",
				Origin:      sdks.OriginFrontend,
			},
		},
		Identity: Identity{
			Identify: TraitSet{Traits: []Trait{
				{Name: "email", Type: TypeString},
				{Name: "name", Type: TypeString},
				{Name: "role", Type: TypeString},
				{Name: "plan", Type: TypeString},
				{Name: "created_at", Type: TypeDatetime},
			}},
			Group: TraitSet{Traits: []Trait{
				{Name: "name", Type: TypeString},
				{Name: "plan", Type: TypeString},
				{Name: "seats", Type: TypeNumber},
				{Name: "mrr", Type: TypeNumber},
			}},
		},
	}
}

func plgTemplate() *TrackingPlan {
	return &TrackingPlan{
		Events: []Event{
			{
				Name:        "signup.completed",
				Description: "Account successfully created",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("method", TypeString, true, "Auth method used"),
				},
			},
			{
				Name:        "onboarding.started",
				Description: "User entered the onboarding flow",
				Origin:      sdks.OriginFrontend,
			},
			{
				Name:        "onboarding.completed",
				Description: "User finished every onboarding step",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("steps", TypeNumber, false, "Steps completed"),
					prop("duration_seconds", TypeNumber, false, "Time spent onboarding"),
				},
			},
			{
				Name:        "onboarding.skipped",
				Description: "User bailed out of onboarding",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("step", TypeString, false, "Step where the user left"),
				},
			},
			{
				Name:        "feature.activated",
				Description: "User exercised a core feature for the first time",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("feature", TypeString, true, "Feature identifier"),
				},
			},
			{
				Name:        "activation.reached",
				Description: "Account crossed the activation threshold",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("days_to_activate", TypeNumber, false, "Days from signup to activation"),
				},
			},
			{
				Name:        "invite.sent",
				Description: "User invited someone into the product",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("channel", TypeString, false, "How the invite was delivered"),
				},
			},
			{
				Name:        "invite.accepted",
				Description: "Invitee joined the workspace",
				Origin:      sdks.OriginBackend,
			},
			{
				Name:        "upgrade.viewed",
				Description: "User saw the upgrade or pricing screen",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("source", TypeString, false, "Surface that triggered the view"),
				},
			},
			{
				Name:        "upgrade.completed",
				Description: "Account self-served onto a paid plan",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("plan", TypeString, true, "Plan purchased"),
				},
			},
		},
		Identity: Identity{
			Identify: TraitSet{Traits: []Trait{
				{Name: "email", Type: TypeString},
				{Name: "name", Type: TypeString},
				{Name: "signup_method", Type: TypeString},
				{Name: "activated", Type: TypeBoolean},
				{Name: "created_at", Type: TypeDatetime},
			}},
			Group: TraitSet{Traits: []Trait{
				{Name: "name", Type: TypeString},
				{Name: "plan", Type: TypeString},
				{Name: "seats", Type: TypeNumber},
			}},
		},
	}
}

func ecommerceTemplate() *TrackingPlan {
	return &TrackingPlan{
		Events: []Event{
			{
				Name:        "product.viewed",
				Description: "Shopper viewed a product detail page",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("product_id", TypeString, true, "Catalog identifier"),
					prop("category", TypeString, false, "Product category"),
					prop("price", TypeNumber, false, "Display price"),
				},
			},
			{
				Name:        "product.added",
				Description: "Shopper added a product to the cart",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("product_id", TypeString, true, "Catalog identifier"),
					prop("quantity", TypeNumber, false, "Units added"),
					prop("price", TypeNumber, false, "Unit price at add time"),
				},
			},
			{
				Name:        "product.removed",
				Description: "Shopper removed a product from the cart",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("product_id", TypeString, true, "Catalog identifier"),
					prop("quantity", TypeNumber, false, "Units removed"),
				},
			},
			{
				Name:        "cart.viewed",
				Description: "Shopper opened the cart",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("item_count", TypeNumber, false, "Distinct items in the cart"),
					prop("total", TypeNumber, false, "Cart total"),
				},
			},
			{
				Name:        "checkout.started",
				Description: "Shopper began checkout",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("item_count", TypeNumber, false, "Distinct items in the cart"),
					prop("total", TypeNumber, true, "Cart total at checkout start"),
				},
			},
			{
				Name:        "checkout.completed",
				Description: "Order placed and payment captured",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("order_id", TypeString, true, "Order identifier"),
					prop("total", TypeNumber, true, "Order total"),
					prop("item_count", TypeNumber, false, "Distinct items ordered"),
					prop("coupon", TypeString, false, "Coupon code, if any"),
				},
			},
			{
				Name:        "order.refunded",
				Description: "Order fully or partially refunded",
				Origin:      sdks.OriginBackend,
				Properties: []Property{
					prop("order_id", TypeString, true, "Order identifier"),
					prop("amount", TypeNumber, false, "Amount refunded"),
				},
			},
			{
				Name:        "search.performed",
				Description: "Shopper searched the catalog",
				Origin:      sdks.OriginFrontend,
				Properties: []Property{
					prop("query", TypeString, true, "Search text as entered"),
					prop("result_count", TypeNumber, false, "Results returned"),
				},
			},
		},
		Identity: Identity{
			Identify: TraitSet{Traits: []Trait{
				{Name: "email", Type: TypeString},
				{Name: "name", Type: TypeString},
				{Name: "lifetime_value", Type: TypeNumber},
				{Name: "created_at", Type: TypeDatetime},
			}},
		},
	}
}
