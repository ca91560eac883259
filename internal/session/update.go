package session

import "golang.org/x/oauth2"

// Update is a partial session mutation. Fields left untouched keep their
// previous value when the update is applied. Build with NewUpdate and the
// chained setters.
type Update struct {
	token     *oauth2.Token
	username  *string
	tenantID  *string
	groupID   *string
	appDomain *string
	project   *string
}

// NewUpdate creates an empty update.
func NewUpdate() *Update {
	return &Update{}
}

// Token replaces the whole OAuth token (access token, refresh token, type and
// expiry move together so a reader can never observe a mixed pair).
func (u *Update) Token(tok *oauth2.Token) *Update {
	if tok != nil {
		cp := *tok
		u.token = &cp
	}
	return u
}

// Username records the login identity.
func (u *Update) Username(name string) *Update {
	u.username = &name
	return u
}

// TenantID sets the active tenant (project key).
func (u *Update) TenantID(id string) *Update {
	u.tenantID = &id
	return u
}

// TenantGroupID sets the tenant group the active project belongs to.
func (u *Update) TenantGroupID(id string) *Update {
	u.groupID = &id
	return u
}

// ApplicationDomain sets the provisioned application URL.
func (u *Update) ApplicationDomain(domain string) *Update {
	u.appDomain = &domain
	return u
}

// ProjectName sets the human-readable project name.
func (u *Update) ProjectName(name string) *Update {
	u.project = &name
	return u
}
