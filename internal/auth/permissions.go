package auth

import "slices"

// CheckPermissions reports whether claims grant the required permission.
// An empty requirement always passes.
func CheckPermissions(required string, claims *Claims) error {
	if required == "" {
		return nil
	}
	if claims == nil || claims.Permissions == nil {
		return newError(ClaimsMissingPermissions, nil)
	}
	if !slices.Contains(claims.Permissions, required) {
		return newError(PermissionDenied, nil)
	}
	return nil
}
