package plan

import (
	"strings"
	"time"
)

type Tier string

const (
	TierFree       Tier = "FREE"
	TierStarter    Tier = "STARTER"
	TierPro        Tier = "PRO"
	TierEnterprise Tier = "ENTERPRISE"
)

// Unlimited marks a count or rate with no ceiling.
const Unlimited = -1

type RateLimits struct {
	RequestsPerMinute int `json:"requests_per_minute"`
	Burst             int `json:"burst"`
}

type Limits struct {
	MaxEndpoints     int           `json:"max_endpoints"`
	MaxAlerts        int           `json:"max_alerts"`
	MinCheckInterval time.Duration `json:"min_check_interval"`
	RetentionDays    int           `json:"retention_days"`
	RateLimits       RateLimits    `json:"rate_limits"`
}

var limitsByTier = map[Tier]Limits{
	TierFree: {
		MaxEndpoints:     5,
		MaxAlerts:        3,
		MinCheckInterval: 5 * time.Minute,
		RetentionDays:    7,
		RateLimits:       RateLimits{RequestsPerMinute: 30, Burst: 5},
	},
	TierStarter: {
		MaxEndpoints:     25,
		MaxAlerts:        25,
		MinCheckInterval: time.Minute,
		RetentionDays:    30,
		RateLimits:       RateLimits{RequestsPerMinute: 120, Burst: 20},
	},
	TierPro: {
		MaxEndpoints:     100,
		MaxAlerts:        200,
		MinCheckInterval: 30 * time.Second,
		RetentionDays:    90,
		RateLimits:       RateLimits{RequestsPerMinute: 600, Burst: 50},
	},
	TierEnterprise: {
		MaxEndpoints:     Unlimited,
		MaxAlerts:        Unlimited,
		MinCheckInterval: 10 * time.Second,
		RetentionDays:    365,
		RateLimits:       RateLimits{RequestsPerMinute: Unlimited},
	},
}

// Tiers lists every known tier in ascending order.
func Tiers() []Tier {
	return []Tier{TierFree, TierStarter, TierPro, TierEnterprise}
}

func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := limitsByTier[t]
	return t, ok
}
