package profile

import "time"

// Profile is the users/{uid} document.
type Profile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        string    `json:"role,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Update is the caller-editable part of a profile. Empty fields are left
// untouched.
type Update struct {
	DisplayName string `json:"displayName,omitempty"`
}

func (p Profile) HasRole(r string) bool {
	if p.Role == r {
		return true
	}
	for _, x := range p.Roles {
		if x == r {
			return true
		}
	}
	return false
}

func fromData(uid string, data map[string]any) *Profile {
	p := &Profile{UID: uid}
	if s, ok := data["uid"].(string); ok && s != "" {
		p.UID = s
	}
	p.Email, _ = data["email"].(string)
	p.DisplayName, _ = data["displayName"].(string)
	p.Role, _ = data["role"].(string)
	p.UpdatedAt, _ = data["updatedAt"].(time.Time)

	switch roles := data["roles"].(type) {
	case []string:
		p.Roles = roles
	case []any:
		for _, r := range roles {
			if s, ok := r.(string); ok {
				p.Roles = append(p.Roles, s)
			}
		}
	}
	return p
}
