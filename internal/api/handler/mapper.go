package handler

import (
	"github.com/idenning2003/fullstack/internal/core/domain"
	"github.com/idenning2003/fullstack/internal/core/ports"
)

// --- Request → Service input ---

func toCreateRoleInput(req createRoleRequest) ports.CreateRoleInput {
	return ports.CreateRoleInput{Name: req.Name, AuthorityIDs: req.AuthorityIDs}
}

func toUpdateRoleInput(req updateRoleRequest) ports.UpdateRoleInput {
	return ports.UpdateRoleInput{Name: req.Name, AuthorityIDs: req.AuthorityIDs}
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Username:  req.Username,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	}
}

// --- Domain → Response ---

func toAuthenticationResponse(t *domain.Token) authenticationResponse {
	return authenticationResponse{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		Expires:     t.ExpiresAt.UTC(),
	}
}

func toAuthorityResponse(a *domain.Authority) authorityResponse {
	return authorityResponse{ID: a.ID, Authority: a.Name}
}

func toAuthorityResponses(as []*domain.Authority) []authorityResponse {
	out := make([]authorityResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAuthorityResponse(a))
	}
	return out
}

func toRoleResponse(r *domain.Role) roleResponse {
	ids := r.AuthorityIDs
	if ids == nil {
		ids = []int64{}
	}
	return roleResponse{ID: r.ID, Name: r.Name, AuthorityIDs: ids}
}

func toRoleResponses(rs []*domain.Role) []roleResponse {
	out := make([]roleResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRoleResponse(r))
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
	}
}

func toUserResponses(us []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toUserResponse(u))
	}
	return out
}
