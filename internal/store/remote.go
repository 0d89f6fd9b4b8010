package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "obralink/internal/errors"
	"obralink/internal/models"
	"obralink/internal/pagination"
)

// Remote is an HTTP client for an external budget system of record. Every
// transport or server failure maps to ErrStoreUnavailable so callers see a
// single retryable condition; only an explicit 404 becomes BudgetNotFound.
type Remote struct {
	httpClient *http.Client
	baseURL    string
}

// NewRemote creates a remote budget store client for the given base URL.
func NewRemote(httpClient *http.Client, baseURL string) *Remote {
	return &Remote{httpClient: httpClient, baseURL: baseURL}
}

type remoteCreateRequest struct {
	ProjectID       string                 `json:"project_id"`
	Kind            models.BudgetKind      `json:"kind"`
	Amount          string                 `json:"amount"`
	Currency        models.Currency        `json:"currency"`
	IndexationMode  models.IndexationMode  `json:"indexation_mode"`
	ComparisonBasis models.ComparisonBasis `json:"comparison_basis"`
	CategoryID      *string                `json:"category_id,omitempty"`
	SubcategoryID   *string                `json:"subcategory_id,omitempty"`
	StageID         *string                `json:"stage_id,omitempty"`
	ProviderID      *string                `json:"provider_id,omitempty"`
}

type remoteRevalueRequest struct {
	NewAmount          string                 `json:"new_amount"`
	NewCurrency        models.Currency        `json:"new_currency"`
	NewIndexationMode  models.IndexationMode  `json:"new_indexation_mode"`
	NewComparisonBasis models.ComparisonBasis `json:"new_comparison_basis"`
	Reason             string                 `json:"reason"`
	Author             string                 `json:"author"`
}

type remoteSupplementRequest struct {
	Concept string `json:"concept"`
	Amount  string `json:"amount"`
	Author  string `json:"author"`
}

// Create submits a creation payload and decodes the created budget.
func (s *Remote) Create(ctx context.Context, orgID string, in CreateInput) (*models.Budget, error) {
	req := remoteCreateRequest{
		ProjectID:       in.ProjectID,
		Kind:            in.Kind,
		Amount:          in.Amount.String(),
		Currency:        in.Currency,
		IndexationMode:  in.IndexationMode,
		ComparisonBasis: in.ComparisonBasis,
		CategoryID:      in.CategoryID,
		SubcategoryID:   in.SubcategoryID,
		StageID:         in.StageID,
		ProviderID:      in.ProviderID,
	}
	var budget models.Budget
	if err := s.do(ctx, orgID, http.MethodPost, "/budgets", req, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// Revalue submits a revaluation delta; the remote store appends the history
// entry before responding with the updated budget.
func (s *Remote) Revalue(ctx context.Context, orgID, budgetID string, in RevalueInput) (*models.Budget, error) {
	req := remoteRevalueRequest{
		NewAmount:          in.NewAmount.String(),
		NewCurrency:        in.NewCurrency,
		NewIndexationMode:  in.NewIndexationMode,
		NewComparisonBasis: in.NewComparisonBasis,
		Reason:             in.Reason,
		Author:             in.Author,
	}
	var budget models.Budget
	if err := s.do(ctx, orgID, http.MethodPost, "/budgets/"+url.PathEscape(budgetID)+"/revalue", req, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// AddSupplement submits an additional charge.
func (s *Remote) AddSupplement(ctx context.Context, orgID, budgetID string, in SupplementInput) (*models.Budget, error) {
	req := remoteSupplementRequest{
		Concept: in.Concept,
		Amount:  in.Amount.String(),
		Author:  in.Author,
	}
	var budget models.Budget
	if err := s.do(ctx, orgID, http.MethodPost, "/budgets/"+url.PathEscape(budgetID)+"/supplements", req, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// Delete issues the destructive call.
func (s *Remote) Delete(ctx context.Context, orgID, budgetID string) error {
	return s.do(ctx, orgID, http.MethodDelete, "/budgets/"+url.PathEscape(budgetID), nil, nil)
}

// GetByID refetches a budget, including its history and executed amount.
func (s *Remote) GetByID(ctx context.Context, orgID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.do(ctx, orgID, http.MethodGet, "/budgets/"+url.PathEscape(budgetID), nil, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// List fetches a page of budgets.
func (s *Remote) List(ctx context.Context, orgID string, page pagination.PageRequest, filter ListFilter) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	q := url.Values{}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("page_size", strconv.Itoa(page.PageSize))
	if filter.ProjectID != nil {
		q.Set("project_id", *filter.ProjectID)
	}
	if filter.Kind != nil {
		q.Set("kind", string(*filter.Kind))
	}

	var result pagination.PageResponse[models.Budget]
	if err := s.do(ctx, orgID, http.MethodGet, "/budgets?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one request against the remote store.
func (s *Remote) do(ctx context.Context, orgID, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Org-ID", orgID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrBudgetNotFound
	case resp.StatusCode >= 400:
		return apperrors.Wrap(apperrors.ErrStoreUnavailable,
			fmt.Errorf("store responded %d for %s %s", resp.StatusCode, method, path))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
