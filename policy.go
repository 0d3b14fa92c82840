package filekeep

// AccessPolicy decides who may see, download and delete file records.
// Admin status is derived from an injected email allow-list and never stored
// on the principal. AccessPolicy is read-only after construction and safe for
// concurrent use.
type AccessPolicy struct {
	admins map[string]struct{}
}

// NewAccessPolicy builds a policy from the admin email allow-list. Empty
// entries are ignored so the empty email is never an admin.
func NewAccessPolicy(adminEmails []string) *AccessPolicy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e == "" {
			continue
		}
		admins[e] = struct{}{}
	}
	return &AccessPolicy{admins: admins}
}

// IsAdmin reports exact, case-sensitive membership in the allow-list.
func (p *AccessPolicy) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := p.admins[email]
	return ok
}

// CanListAll reports whether the principal sees every record in listings.
func (p *AccessPolicy) CanListAll(pr Principal) bool {
	return p.IsAdmin(pr.Email)
}

// CanDelete is owner only. Admins cannot delete other users' files.
func (p *AccessPolicy) CanDelete(pr Principal, rec FileRecord) bool {
	return pr.ID != "" && pr.ID == rec.OwnerID
}

// CanDownload allows the owner and any admin.
func (p *AccessPolicy) CanDownload(pr Principal, rec FileRecord) bool {
	return (pr.ID != "" && pr.ID == rec.OwnerID) || p.IsAdmin(pr.Email)
}

// Admins returns the number of distinct admin emails in the allow-list.
func (p *AccessPolicy) Admins() int {
	return len(p.admins)
}
