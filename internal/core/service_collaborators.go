package core

import (
	"context"
	"net/mail"

	"github.com/JonMunkholm/pmadmin/internal/store"
)

var collaboratorAggregate = aggregate[Collaborator]{
	kind:       KindCollaborators,
	table:      collaboratorTable,
	version:    func(c Collaborator) int64 { return c.Version },
	setVersion: func(c Collaborator, v int64) Collaborator { c.Version = v; return c },
	validate: func(c Collaborator) []ValidationError {
		var v Validator
		v.Required("first name", c.FirstName)
		v.Required("last name", c.LastName)
		if c.Email != "" {
			if _, err := mail.ParseAddress(c.Email); err != nil {
				v.Add(ValidationError{Field: "email", Value: c.Email, Message: "not a valid email address"})
			}
		}
		return v.Errors()
	},
}

// GetCollaborator loads a collaborator with their roles.
func (s *Service) GetCollaborator(ctx context.Context, id int64) (CollaboratorDetail, error) {
	var roles []Role
	c, err := load(ctx, s, KindCollaborators, collaboratorTable, id, func(q store.Querier) error {
		var err error
		roles, err = roleTable.ListByParent(ctx, q, id)
		return err
	})
	if err != nil {
		return CollaboratorDetail{}, err
	}
	return CollaboratorDetail{Collaborator: c, Roles: roles}, nil
}

// CreateCollaborator inserts a collaborator and their roles.
func (s *Service) CreateCollaborator(ctx context.Context, sub CollaboratorSubmission) (SaveResult, error) {
	sub.Collaborator.ID = 0
	return create(ctx, s, collaboratorAggregate, sub.Collaborator,
		childrenOf(roleTable, roleBinding, sub.Roles))
}

// UpdateCollaborator saves a collaborator together with the role collection.
func (s *Service) UpdateCollaborator(ctx context.Context, sub CollaboratorSubmission) (SaveResult, error) {
	return update(ctx, s, collaboratorAggregate, sub.Collaborator,
		childrenOf(roleTable, roleBinding, sub.Roles))
}

// DeleteCollaborator removes a collaborator, their roles and work logs.
func (s *Service) DeleteCollaborator(ctx context.Context, id int64) error {
	return remove(ctx, s, KindCollaborators, collaboratorTable, id)
}

// CollaboratorOptions lists collaborators for dropdowns, ordered by last name.
func (s *Service) CollaboratorOptions(ctx context.Context) ([]Option, error) {
	return s.options(ctx,
		"SELECT id, first_name || ' ' || last_name FROM collaborators ORDER BY last_name, first_name, id")
}
