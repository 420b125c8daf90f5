package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plantops/ot/internal/types"
)

// ListTechnicians returns every technician, active or not. Callers filter.
func (c *Client) ListTechnicians(ctx context.Context) ([]types.Technician, error) {
	var techs []types.Technician
	if err := c.do(ctx, http.MethodGet, "/api/tecnicos", nil, &techs); err != nil {
		return nil, fmt.Errorf("failed to fetch technicians: %w", err)
	}
	return techs, nil
}

// ListSpareParts returns the active spare parts catalog.
func (c *Client) ListSpareParts(ctx context.Context) ([]types.SparePart, error) {
	var parts []types.SparePart
	if err := c.do(ctx, http.MethodGet, "/api/recambios", nil, &parts); err != nil {
		return nil, fmt.Errorf("failed to fetch spare parts: %w", err)
	}
	return parts, nil
}

// ListInterventionTypes returns the active intervention-type catalog.
func (c *Client) ListInterventionTypes(ctx context.Context) ([]types.InterventionType, error) {
	var list []types.InterventionType
	if err := c.do(ctx, http.MethodGet, "/api/tipos-intervencion", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch intervention types: %w", err)
	}
	return list, nil
}

// GetAssetTree returns the asset hierarchy rooted at each company.
func (c *Client) GetAssetTree(ctx context.Context) ([]types.AssetNode, error) {
	var tree []types.AssetNode
	if err := c.do(ctx, http.MethodGet, "/getActivosTree", nil, &tree); err != nil {
		return nil, fmt.Errorf("failed to fetch asset tree: %w", err)
	}
	return tree, nil
}

// ListAssets returns every level of the asset hierarchy as a flat list.
func (c *Client) ListAssets(ctx context.Context) ([]types.Asset, error) {
	var assets []types.Asset
	if err := c.do(ctx, http.MethodGet, "/api/equipos-lista", nil, &assets); err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}
	return assets, nil
}
