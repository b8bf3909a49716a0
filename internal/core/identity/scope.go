package identity

// Scope restricts repository queries to one tenant. The zero value is unscoped,
// which is the shared-tenancy behaviour.
type Scope struct {
	TenantID int64
	Isolated bool
}

func Unscoped() Scope { return Scope{} }

func TenantScope(tenantID int64) Scope {
	return Scope{TenantID: tenantID, Isolated: true}
}

// ScopeFor builds the scope for an identity given the configured tenancy mode.
func ScopeFor(id Identity, isolated bool) Scope {
	if !isolated {
		return Unscoped()
	}
	return TenantScope(id.TenantID)
}
