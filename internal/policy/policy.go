// Package policy implements tier and role access decisions over verified
// token claims. Both checks are pure functions; they assume the caller has
// already been authenticated.
package policy

import (
	"fmt"

	"orbit/internal/models"
	"orbit/internal/token"
)

// tierLevels orders tiers: free(1) < premium(2) < enterprise(3).
// Unknown tiers map to 0 and never satisfy any requirement.
var tierLevels = map[models.UserTier]int{
	models.TierFree:       1,
	models.TierPremium:    2,
	models.TierEnterprise: 3,
}

// TierLevel returns the ordinal level of t, or 0 for unknown tiers.
func TierLevel(t models.UserTier) int {
	return tierLevels[t]
}

// RequireTier allows claims whose tier level is at least that of min.
// A deny is a 403-class error carrying the required tier in its details.
func RequireTier(claims *token.Claims, min models.UserTier) error {
	if claims == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	if TierLevel(claims.Tier) >= TierLevel(min) && TierLevel(claims.Tier) > 0 {
		return nil
	}
	forbidden := models.NewForbiddenError("Insufficient tier")
	forbidden.Err = fmt.Errorf("required: %s", min)
	return forbidden
}

// RequireRole allows claims whose role exactly matches role. Roles are not
// hierarchical and are independent of tiers: an admin does not implicitly
// satisfy tier requirements, nor the reverse.
func RequireRole(claims *token.Claims, role models.UserRole) error {
	if claims == nil {
		return models.NewUnauthorizedError("Authentication required")
	}
	if claims.Role == role {
		return nil
	}
	return models.NewForbiddenError(fmt.Sprintf("%s role required", role))
}
