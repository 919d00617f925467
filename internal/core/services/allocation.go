package services

import (
	"context"
	"fmt"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
)

// allocationRouter decides which single owner aggregate a transaction charges.
// Exactly one of the submitted references wins: a project routes either to
// itself (internal) or to its billing client, a bare client reference routes
// to the client, a bare department reference to the department, and no
// reference at all leaves the transaction period-only.
type allocationRouter struct {
	ownerRepo portsrepo.OwnerRepositoryFacade
}

// projectOwnership resolves the billing variant of a project. A client-billed
// project without a client is a configuration fault, not a valid state.
func (r *allocationRouter) projectOwnership(project *domain.Project) (domain.ProjectOwnership, error) {
	if project.IsInternal {
		return domain.ProjectOwnership{Internal: true}, nil
	}
	if project.ClientID == nil || *project.ClientID == "" {
		return domain.ProjectOwnership{}, fmt.Errorf("%w: project %s is client-billed but has no client", apperrors.ErrConfiguration, project.ProjectID)
	}
	return domain.ProjectOwnership{ClientID: *project.ClientID}, nil
}

// Resolve validates the submitted references and picks the owner to charge.
// It returns the owner reference and the department the period summary is
// keyed by (nil for the company-wide period).
func (r *allocationRouter) Resolve(ctx context.Context, projectID, clientID, departmentID *string) (domain.OwnerRef, *string, error) {
	// A department reference always pins the period, whichever owner wins.
	periodDept := departmentID
	if departmentID != nil {
		if _, err := r.ownerRepo.FindDepartmentByID(ctx, *departmentID); err != nil {
			return domain.OwnerRef{}, nil, fmt.Errorf("department %s: %w", *departmentID, err)
		}
	}

	switch {
	case projectID != nil:
		project, err := r.ownerRepo.FindProjectByID(ctx, *projectID)
		if err != nil {
			return domain.OwnerRef{}, nil, fmt.Errorf("project %s: %w", *projectID, err)
		}
		ownership, err := r.projectOwnership(project)
		if err != nil {
			return domain.OwnerRef{}, nil, err
		}
		if periodDept == nil {
			periodDept = project.DepartmentID
		}
		if ownership.Internal {
			return domain.OwnerRef{Type: domain.OwnerProject, ID: project.ProjectID}, periodDept, nil
		}
		if _, err := r.ownerRepo.FindClientByID(ctx, ownership.ClientID); err != nil {
			return domain.OwnerRef{}, nil, fmt.Errorf("%w: project %s bills client %s which does not exist", apperrors.ErrConfiguration, project.ProjectID, ownership.ClientID)
		}
		return domain.OwnerRef{Type: domain.OwnerClient, ID: ownership.ClientID}, periodDept, nil

	case clientID != nil:
		if _, err := r.ownerRepo.FindClientByID(ctx, *clientID); err != nil {
			return domain.OwnerRef{}, nil, fmt.Errorf("client %s: %w", *clientID, err)
		}
		return domain.OwnerRef{Type: domain.OwnerClient, ID: *clientID}, periodDept, nil

	case departmentID != nil:
		return domain.OwnerRef{Type: domain.OwnerDepartment, ID: *departmentID}, periodDept, nil

	default:
		return domain.OwnerRef{Type: domain.OwnerNone}, nil, nil
	}
}
